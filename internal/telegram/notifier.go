package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"

	"github.com/hmdsef/taskpoint/internal/config"
	"github.com/hmdsef/taskpoint/internal/domain"
)

// MaxMessageLen is the Telegram message size cap.
const MaxMessageLen = 4096

// Notifier delivers engine events to a Telegram supergroup, one forum topic
// per event kind. Delivery is fire-and-forget; failures are logged and the
// event is dropped.
type Notifier struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewNotifier(b *bot.Bot, cfg *config.Config) *Notifier {
	return &Notifier{bot: b, cfg: cfg}
}

func (n *Notifier) LevelUp(accountID int64, newLevel string) {
	msg := fmt.Sprintf("🏆 *Level Up*\n\n*User:* `%d`\n*New level:* %s", accountID, newLevel)
	n.send(n.cfg.EventTopicLevelUp, msg)
}

func (n *Notifier) ReservationExpired(userID int64, taskID string) {
	msg := fmt.Sprintf("⏰ *Reservation Expired*\n\n*User:* `%d`\n*Task:* `%s`", userID, taskID)
	n.send(n.cfg.EventTopicReservation, msg)
}

func (n *Notifier) ProofResolved(proof domain.Proof, decision domain.ProofStatus) {
	reviewer := fmt.Sprintf("`%d`", proof.ReviewedBy)
	if proof.ReviewedBy == domain.SystemReviewer {
		reviewer = "system (deadline)"
	}
	msg := fmt.Sprintf("📋 *Proof %s*\n\n*Executor:* `%d`\n*Task:* `%s`\n*Reviewer:* %s",
		decision, proof.ExecutorID, proof.TaskID, reviewer)
	n.send(n.cfg.EventTopicProof, msg)
}

func (n *Notifier) InviteAccepted(referrerID, inviteeID int64, reward decimal.Decimal) {
	msg := fmt.Sprintf("🤝 *Invite Accepted*\n\n*Referrer:* `%d`\n*Invitee:* `%d`\n*Reward:* %s pts",
		referrerID, inviteeID, reward.String())
	n.send(n.cfg.EventTopicInvite, msg)
}

func (n *Notifier) PrizeWon(userID int64, prize domain.PrizeOutcome) {
	msg := fmt.Sprintf("🎁 *Prize Won*\n\n*User:* `%d`\n*Prize:* %s %s",
		userID, prize.Value.String(), prize.Type)
	if prize.GiftCode != "" {
		msg += fmt.Sprintf("\n*Code:* `%s`", prize.GiftCode)
	}
	n.send(n.cfg.EventTopicPrize, msg)
}

func (n *Notifier) TaskCompleted(task domain.Task) {
	msg := fmt.Sprintf("✅ *Task Completed*\n\n*Task:* %s (`%s`)\n*Owner:* `%d`\n*Executions:* %d",
		task.Name, task.Code, task.OwnerID, task.CompletedCount)
	n.send(n.cfg.EventTopicTask, msg)
}

func (n *Notifier) send(topicID int, message string) {
	if n.cfg.EventChatID == 0 || topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.EventChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send event notification", "topic", topicID, "error", err)
	}
}
