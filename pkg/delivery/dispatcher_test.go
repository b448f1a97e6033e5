package delivery

import (
	"ShardStore/pkg/worlditem"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommandClient struct {
	commands []string
	err      error
}

func (f *fakeCommandClient) Execute(ctx context.Context, command string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.commands = append(f.commands, command)
	return "Mail sent to Thrall", nil
}

type markCall struct {
	receiverGUID uint32
	subject      string
}

type fakeLocator struct {
	marks   []markCall
	markErr error
}

func (f *fakeLocator) FindItemLocation(ctx context.Context, characterGUID, itemTemplateID uint32) (*worlditem.ItemLocation, error) {
	return nil, nil
}

func (f *fakeLocator) Remove(ctx context.Context, location *worlditem.ItemLocation) error {
	return nil
}

func (f *fakeLocator) MarkMailPersistent(ctx context.Context, receiverGUID uint32, subject string) error {
	f.marks = append(f.marks, markCall{receiverGUID: receiverGUID, subject: subject})
	return f.markErr
}

func TestDeliverBuildsSendItemsCommand(t *testing.T) {
	client := &fakeCommandClient{}
	locator := &fakeLocator{}
	d := NewDispatcher(client, locator)

	err := d.Deliver(context.Background(), 1, "Thrall", "Soul Shard Store", "Enjoy your purchase!", []ItemStack{
		{TemplateID: 37719, Count: 1},
		{TemplateID: 30486, Count: 2},
	})
	require.NoError(t, err)

	require.Len(t, client.commands, 1)
	assert.Equal(t, `.send items Thrall "Soul Shard Store" "Enjoy your purchase!" 37719:1 30486:2`, client.commands[0])
}

func TestDeliverMarksMailPersistent(t *testing.T) {
	client := &fakeCommandClient{}
	locator := &fakeLocator{}
	d := NewDispatcher(client, locator)

	err := d.Deliver(context.Background(), 42, "Thrall", "Soul Shard Store", "body", []ItemStack{{TemplateID: 1, Count: 1}})
	require.NoError(t, err)

	require.Len(t, locator.marks, 1)
	assert.Equal(t, uint32(42), locator.marks[0].receiverGUID)
	assert.Equal(t, "Soul Shard Store", locator.marks[0].subject)
}

func TestDeliverClientErrorSkipsMailMarking(t *testing.T) {
	client := &fakeCommandClient{err: errors.New("connection refused")}
	locator := &fakeLocator{}
	d := NewDispatcher(client, locator)

	err := d.Deliver(context.Background(), 1, "Thrall", "s", "b", []ItemStack{{TemplateID: 1, Count: 1}})
	assert.Error(t, err)
	assert.Empty(t, locator.marks)
}

func TestDeliverMarkFailureIsNotADeliveryFailure(t *testing.T) {
	client := &fakeCommandClient{}
	locator := &fakeLocator{markErr: errors.New("mail row not found")}
	d := NewDispatcher(client, locator)

	err := d.Deliver(context.Background(), 1, "Thrall", "s", "b", []ItemStack{{TemplateID: 1, Count: 1}})
	assert.NoError(t, err)
}

func TestDeliverEmptyItemsRejected(t *testing.T) {
	client := &fakeCommandClient{}
	d := NewDispatcher(client, &fakeLocator{})

	err := d.Deliver(context.Background(), 1, "Thrall", "s", "b", nil)
	assert.Error(t, err)
	assert.Empty(t, client.commands)
}

func TestDeliverZeroCountClampedToOne(t *testing.T) {
	client := &fakeCommandClient{}
	d := NewDispatcher(client, &fakeLocator{})

	err := d.Deliver(context.Background(), 1, "Thrall", "s", "b", []ItemStack{{TemplateID: 500, Count: 0}})
	require.NoError(t, err)
	require.Len(t, client.commands, 1)
	assert.Contains(t, client.commands[0], " 500:1")
}

// Player-controlled text flows into a live console command; anything outside
// the whitelist has to be stripped before it gets there.
func TestSanitizeStripsInjectionAttempts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote breakout", `hello" .account delete victim "`, "hello .account delete victim "},
		{"newline", "line1\n.server shutdown", "line1.server shutdown"},
		{"allowed punctuation kept", "Thanks! See you at 9:30, ok?", "Thanks! See you at 9:30, ok?"},
		{"unicode dropped", "héllo wörld", "hllo wrld"},
		{"backslash and brackets", `a\b[c]{d}`, "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestSanitizeNameKeepsLettersOnly(t *testing.T) {
	assert.Equal(t, "Thrall", sanitizeName(`Thrall" "x`))
	assert.Equal(t, "Jaina", sanitizeName("Jaina2"))
	assert.Equal(t, "", sanitizeName(`123 "';`))
}

func TestQuotedSubjectCannotEscapeTheCommand(t *testing.T) {
	client := &fakeCommandClient{}
	d := NewDispatcher(client, &fakeLocator{})

	err := d.Deliver(context.Background(), 1, `Thrall" extra`, `sub" .ban account`, `body"`, []ItemStack{{TemplateID: 1, Count: 1}})
	require.NoError(t, err)
	require.Len(t, client.commands, 1)
	assert.Equal(t, `.send items Thrall "sub .ban account" "body" 1:1`, client.commands[0])
}
