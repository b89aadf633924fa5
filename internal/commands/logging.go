package commands

import (
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/pkg/interfaces"
)

// Message types are named "sitefeeds.<module>.<action>". The module picks the
// logger a handler writes to: "feeds" for builds and cache invalidation,
// "content" for front-matter linting.
const (
	messageTypePrefix  = "sitefeeds"
	commandLoggerRoot  = "sitefeeds.commands"
	fieldCommandModule = "command_module"
)

// CommandLogger returns the logger for one command module, named
// "sitefeeds.commands.<module>". An empty module logs under the root.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.Trim(strings.TrimSpace(module), ".")
	name := commandLoggerRoot
	fields := map[string]any{"component": "command"}
	if module != "" {
		name += "." + module
		fields[fieldCommandModule] = module
	}
	return logging.WithFields(logging.ModuleLogger(provider, name), fields)
}

// MessageModule returns the module segment of msg's type, or "" when the type
// does not follow the sitefeeds naming.
func MessageModule(msg command.Message) string {
	parts := strings.Split(command.GetMessageType(msg), ".")
	if len(parts) < 3 || parts[0] != messageTypePrefix {
		return ""
	}
	return parts[1]
}

// MessageLogger is CommandLogger for the module msg belongs to.
func MessageLogger(provider interfaces.LoggerProvider, msg command.Message) interfaces.Logger {
	return CommandLogger(provider, MessageModule(msg))
}
