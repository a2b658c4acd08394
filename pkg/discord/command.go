package discord

import (
	"context"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
)

// adminPermissions mark a member as a moderator
const adminPermissions = discordgo.PermissionAdministrator | discordgo.PermissionManageGuild

func optionType(t command.OptionType) discordgo.ApplicationCommandOptionType {
	switch t {
	case command.OptionInteger:
		return discordgo.ApplicationCommandOptionInteger
	case command.OptionBool:
		return discordgo.ApplicationCommandOptionBoolean
	case command.OptionUser:
		return discordgo.ApplicationCommandOptionUser
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// ToApplicationCommand converts a registry command to a Discord application command
func ToApplicationCommand(cmd *command.Command) *discordgo.ApplicationCommand {
	opts := make([]*discordgo.ApplicationCommandOption, 0, len(cmd.Options))
	for _, o := range cmd.Options {
		desc := o.Description
		if desc == "" {
			desc = o.Name
		}
		opt := &discordgo.ApplicationCommandOption{
			Type:        optionType(o.Type),
			Name:        o.Name,
			Description: desc,
			Required:    o.Required,
		}
		for _, choice := range o.Choices {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: choice, Value: choice})
		}
		opts = append(opts, opt)
	}

	appCmd := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
		Options:     opts,
	}
	if cmd.AdminOnly {
		perms := int64(adminPermissions)
		appCmd.DefaultMemberPermissions = &perms
	}
	return appCmd
}

// optionArgs lays the interaction options out in declaration order. A user
// option becomes the target; missing optional options end the list.
func optionArgs(s *discordgo.Session, cmd *command.Command, given []*discordgo.ApplicationCommandInteractionDataOption) (*command.User, []string) {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(given))
	for _, o := range given {
		byName[o.Name] = o
	}

	var target *command.User
	args := make([]string, 0, len(cmd.Options))
	for _, decl := range cmd.Options {
		o, ok := byName[decl.Name]
		if !ok {
			if decl.Type == command.OptionUser {
				continue
			}
			break
		}
		switch decl.Type {
		case command.OptionUser:
			id := snowflake(userOptionID(o))
			name := idString(id)
			if s != nil {
				if u := o.UserValue(s); u != nil && u.Username != "" {
					name = u.Username
				}
			}
			target = &command.User{ID: id, Name: name}
		case command.OptionInteger:
			args = append(args, strconv.FormatInt(o.IntValue(), 10))
		case command.OptionBool:
			args = append(args, strconv.FormatBool(o.BoolValue()))
		default:
			args = append(args, o.StringValue())
		}
	}
	return target, args
}

func userOptionID(o *discordgo.ApplicationCommandInteractionDataOption) string {
	if id, ok := o.Value.(string); ok {
		return id
	}
	return ""
}

// memberPrivileged reports whether the invoking member may run admin commands
func memberPrivileged(perms int64, userID, ownerID int64) bool {
	if ownerID != 0 && userID == ownerID {
		return true
	}
	return perms&adminPermissions != 0
}

func interactionUser(i *discordgo.InteractionCreate) (*discordgo.User, int64) {
	if i.Member != nil {
		return i.Member.User, i.Member.Permissions
	}
	return i.User, 0
}

func (c *ExtendedClient) commandContext(s *discordgo.Session, i *discordgo.InteractionCreate, cmd *command.Command, given []*discordgo.ApplicationCommandInteractionDataOption) *command.Context {
	u, perms := interactionUser(i)
	user := command.User{}
	if u != nil {
		user = command.User{ID: snowflake(u.ID), Name: u.Username}
	}

	ctx := command.NewContext(context.Background(), config.PlatformDiscord, snowflake(i.ChannelID), user,
		&interactionReplier{session: s, interaction: i.Interaction})
	ctx.Privileged = memberPrivileged(perms, user.ID, c.OwnerID)
	ctx.Target, ctx.Args = optionArgs(s, cmd, given)
	return ctx.WithCleanup(c.Cleanup)
}

// interactionReplier answers the interaction first and sends follow-ups after
type interactionReplier struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func (r *interactionReplier) Reply(_ context.Context, text string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.responded {
		err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: text},
		})
		if err != nil {
			return 0, err
		}
		r.responded = true
		return 0, nil
	}

	msg, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{Content: text})
	if err != nil {
		return 0, err
	}
	return snowflake(msg.ID), nil
}
