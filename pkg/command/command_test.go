package command

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type recordingReplier struct {
	texts []string
	next  int64
}

func (r *recordingReplier) Reply(_ context.Context, text string) (int64, error) {
	r.texts = append(r.texts, text)
	r.next++
	return r.next, nil
}

func TestCommandCreation(t *testing.T) {
	cmd := NewCommand("lock", "Bloquea un tipo de contenido", "moderation", func(*Context) error { return nil }).
		WithOptions(Option{Name: "tipo", Type: OptionString, Required: true}).
		AsAdmin()

	if cmd.Name != "lock" {
		t.Errorf("Name = %v, want %v", cmd.Name, "lock")
	}
	if !cmd.AdminOnly {
		t.Error("AdminOnly should be true")
	}
	if cmd.TakesUser() {
		t.Error("TakesUser() should be false for a string option")
	}
	if got := cmd.Usage(); got != "/lock <tipo>" {
		t.Errorf("Usage() = %v, want %v", got, "/lock <tipo>")
	}
}

func TestUsageWithChoices(t *testing.T) {
	cmd := NewCommand("antiflood", "", "", nil).WithOptions(
		Option{Name: "estado", Required: true, Choices: []string{"on", "off"}},
		Option{Name: "limite", Type: OptionInteger},
	)
	if got := cmd.Usage(); got != "/antiflood <on|off> [limite]" {
		t.Errorf("Usage() = %v", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs []string
		wantOK   bool
	}{
		{"/lock media", "lock", []string{"media"}, true},
		{"/Lock@GuardBot stickers", "lock", []string{"stickers"}, true},
		{"/lock@otherbot stickers", "", nil, false},
		{"/warns", "warns", []string{}, true},
		{"hola /lock", "", nil, false},
		{"/", "", nil, false},
		{"/@GuardBot", "", nil, false},
	}

	for _, tt := range tests {
		name, args, ok := Parse(tt.text, "guardbot")
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("Parse(%q) = %v, %v, want %v, %v", tt.text, name, ok, tt.wantName, tt.wantOK)
			continue
		}
		if ok && !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("Parse(%q) args = %v, want %v", tt.text, args, tt.wantArgs)
		}
	}
}

func TestContextArgs(t *testing.T) {
	c := &Context{Args: []string{"spam", "y", "flood", "7"}}

	if c.Arg(0) != "spam" || c.Arg(9) != "" || c.Arg(-1) != "" {
		t.Error("Arg() returned unexpected values")
	}
	if got := c.Rest(1); got != "y flood 7" {
		t.Errorf("Rest(1) = %v", got)
	}
	if got := c.Rest(4); got != "" {
		t.Errorf("Rest(4) = %v, want empty", got)
	}
	if n, ok := c.IntArg(3); !ok || n != 7 {
		t.Errorf("IntArg(3) = %v, %v", n, ok)
	}
	if _, ok := c.IntArg(0); ok {
		t.Error("IntArg(0) should fail for a word")
	}
}

func TestDispatch(t *testing.T) {
	r := NewRegistry()
	ran := 0
	r.Register(NewCommand("lock", "", "moderation", func(*Context) error { ran++; return nil }).AsAdmin())
	r.Register(NewCommand("help", "", "utils", func(*Context) error { ran++; return nil }))

	replier := &recordingReplier{}
	ctx := NewContext(context.Background(), "telegram", -100, User{ID: 1}, replier)

	if err := r.Dispatch(ctx, "lock"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if ran != 0 {
		t.Error("admin command ran for a regular user")
	}
	if len(replier.texts) != 1 || replier.texts[0] != AdminOnlyMessage {
		t.Errorf("replies = %v", replier.texts)
	}

	ctx.Privileged = true
	if err := r.Dispatch(ctx, "lock"); err != nil || ran != 1 {
		t.Errorf("privileged dispatch: err = %v, ran = %v", err, ran)
	}
	if ctx.Command == nil || ctx.Command.Name != "lock" {
		t.Error("Dispatch() should set Context.Command")
	}

	if err := r.Dispatch(ctx, "nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command error = %v", err)
	}
}

func TestDispatchReturnsRunError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register(NewCommand("x", "", "", func(*Context) error { return boom }))

	ctx := NewContext(context.Background(), "telegram", 1, User{}, &recordingReplier{})
	if err := r.Dispatch(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestRegistryOrderAndReplace(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCommand("b", "first", "z", nil))
	r.Register(NewCommand("a", "", "y", nil))
	r.Register(NewCommand("b", "second", "z", nil))

	all := r.All()
	if len(all) != 2 || all[0].Name != "b" || all[1].Name != "a" {
		t.Fatalf("All() order wrong: %v", all)
	}
	if all[0].Description != "second" {
		t.Errorf("duplicate should replace, got %v", all[0].Description)
	}

	cats, groups := r.Categories()
	if !reflect.DeepEqual(cats, []string{"y", "z"}) || len(groups["z"]) != 1 {
		t.Errorf("Categories() = %v, %v", cats, groups)
	}
}

func TestReplyTemporary(t *testing.T) {
	replier := &recordingReplier{}
	var gotChat, gotMsg int64
	var gotTTL time.Duration

	ctx := NewContext(context.Background(), "telegram", -100, User{}, replier).
		WithCleanup(func(chatID, messageID int64, ttl time.Duration) {
			gotChat, gotMsg, gotTTL = chatID, messageID, ttl
		})

	if err := ctx.ReplyTemporary("listo", 5*time.Second); err != nil {
		t.Fatalf("ReplyTemporary() error = %v", err)
	}
	if gotChat != -100 || gotMsg != 1 || gotTTL != 5*time.Second {
		t.Errorf("cleanup got %v %v %v", gotChat, gotMsg, gotTTL)
	}
}
