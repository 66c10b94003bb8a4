// Package driving defines the inbound ports of the core: the interfaces
// the CLI (and any other driver, such as a programmatic message producer)
// uses to operate the bot.
package driving
