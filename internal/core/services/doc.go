// Package services implements the driving ports on top of the driven
// ports: the message queue, the credential registry, and the posting
// protocol.
package services
