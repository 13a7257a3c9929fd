package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	applog "budgetbot/internal/log"
)

// API is the part of the Telegram client the runner uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Runner long-polls Telegram and feeds commands to a Dispatcher one at a
// time.
type Runner struct {
	api         API
	dispatcher  *Dispatcher
	pollTimeout time.Duration
	logger      *slog.Logger
}

func NewRunner(api API, dispatcher *Dispatcher, pollTimeout time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{api: api, dispatcher: dispatcher, pollTimeout: pollTimeout, logger: logger}
}

// NewAPI connects to Telegram with token.
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	api.Debug = debug
	return api, nil
}

// RegisterCommands publishes the command menu.
func (r *Runner) RegisterCommands(ctx context.Context) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(Commands))
	for _, c := range Commands {
		cmds = append(cmds, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := r.api.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	r.logger.InfoContext(ctx, "Registered bot commands", "count", len(cmds))
	return nil
}

// Run processes updates until ctx is cancelled or a command fails with a
// non-user error, which is returned.
func (r *Runner) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(r.pollTimeout / time.Second)
	updates := r.api.GetUpdatesChan(u)
	defer r.api.StopReceivingUpdates()

	r.logger.InfoContext(ctx, "Bot polling started", "timeout", r.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Bot polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := r.handleUpdate(ctx, update); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return nil
	}
	chatID := msg.Chat.ID
	r.logger.InfoContext(ctx, "Command received", applog.FieldChatID, chatID, applog.FieldCommand, msg.Command())
	reply, err := r.dispatcher.Dispatch(ctx, msg.Command(), strings.Fields(msg.CommandArguments()))
	if err != nil {
		r.logger.ErrorContext(ctx, "Stopping bot after storage error", applog.FieldChatID, chatID, applog.FieldError, err)
		return err
	}

	out := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.Markdown {
		out.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := r.api.Send(out); err != nil {
		// Delivery failures do not affect the ledger.
		r.logger.WarnContext(ctx, "Failed to send reply", applog.FieldChatID, chatID, applog.FieldError, err)
	}
	return nil
}
