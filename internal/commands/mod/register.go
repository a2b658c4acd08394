// Package mod provides the moderation commands. Each command is in its own
// file; handlers act through moderation.Admin.
package mod

import (
	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// Category groups the moderation commands in /help
const Category = "moderación"

type handlers struct {
	admin *moderation.Admin
}

// RegisterModCommands registers all moderation commands
func RegisterModCommands(reg *command.Registry, admin *moderation.Admin) {
	h := &handlers{admin: admin}

	for _, cmd := range []*command.Command{
		h.createLockCommand(),
		h.createUnlockCommand(),
		h.createLocksCommand(),
		h.createAntifloodCommand(),
		h.createWarnCommand(),
		h.createResetWarnCommand(),
		h.createRemoveWarnCommand(),
		h.createWarnsCommand(),
		h.createSetWarnLimitCommand(),
		h.createSetWarnActionCommand(),
		h.createAddAllowedLinkCommand(),
		h.createRemoveAllowedLinkCommand(),
		h.createAllowedLinksCommand(),
		h.createForceSubCommand(),
		h.createSetChannelCommand(),
		h.createAutoDeletePinsCommand(),
		h.createAutoDeleteJoinsCommand(),
		h.createBanCommand(),
		h.createKickCommand(),
		h.createMuteCommand(),
	} {
		reg.Register(cmd)
	}
}
