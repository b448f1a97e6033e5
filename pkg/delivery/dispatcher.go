package delivery

import (
	"ShardStore/pkg/worlditem"
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ItemStack is one item template and how many of it to mail.
type ItemStack struct {
	TemplateID uint32
	Count      int
}

type (
	// Dispatcher sends purchased items into the game world. Any transport
	// error, timeout or console fault is a failed delivery; the caller
	// must never assume delivery happened just because the command was
	// sent.
	Dispatcher interface {
		Deliver(ctx context.Context, recipientGUID uint32, recipientName, subject, body string, items []ItemStack) error
	}

	dispatcher struct {
		client  CommandClient
		locator worlditem.ItemLocator
	}
)

func NewDispatcher(client CommandClient, locator worlditem.ItemLocator) Dispatcher {
	return &dispatcher{
		client:  client,
		locator: locator,
	}
}

func (d *dispatcher) Deliver(ctx context.Context, recipientGUID uint32, recipientName, subject, body string, items []ItemStack) error {
	if len(items) == 0 {
		return fmt.Errorf("nothing to deliver")
	}

	command := buildSendItemsCommand(recipientName, subject, body, items)
	if _, err := d.client.Execute(ctx, command); err != nil {
		return err
	}

	// The game server's housekeeping returns and expires old mail. Shop
	// mail has to survive at least the refund window, so pin it down.
	if err := d.locator.MarkMailPersistent(ctx, recipientGUID, sanitize(subject)); err != nil {
		log.WithFields(log.Fields{
			"error":     err,
			"recipient": recipientName,
		}).Warn("delivered mail could not be marked persistent")
	}

	return nil
}

func buildSendItemsCommand(recipientName, subject, body string, items []ItemStack) string {
	var sb strings.Builder
	sb.WriteString(".send items ")
	sb.WriteString(sanitizeName(recipientName))
	sb.WriteString(" \"")
	sb.WriteString(sanitize(subject))
	sb.WriteString("\" \"")
	sb.WriteString(sanitize(body))
	sb.WriteString("\"")
	for _, stack := range items {
		count := stack.Count
		if count < 1 {
			count = 1
		}
		sb.WriteString(fmt.Sprintf(" %d:%d", stack.TemplateID, count))
	}
	return sb.String()
}

// sanitize strips free text down to a whitelist before it is embedded in a
// console command. The command channel has no escaping of its own, so
// anything outside the whitelist is a potential command injection into the
// live game server.
func sanitize(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '.', r == ',', r == ':', r == '!', r == '?', r == '-', r == '\'':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// sanitizeName keeps the longest leading run of letters. Character names
// cannot contain anything else, and splicing the letters from around a
// tampered name would silently address a different character.
func sanitizeName(name string) string {
	for i, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return name[:i]
		}
	}
	return name
}
