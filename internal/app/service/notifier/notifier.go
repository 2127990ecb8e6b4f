package notifier

import (
	"context"
	"fmt"

	"github.com/fatmeal/commerce/internal/models"
	cfgpkg "github.com/fatmeal/commerce/pkg/config"
	"github.com/fatmeal/commerce/pkg/logctx"

	"github.com/mrz1836/postmark"
	"go.uber.org/zap"
)

// Notifier sends customer-facing messages on key subscription transitions.
// Calls are fire-and-forget: delivery failures are logged, never propagated
// into the state transition that triggered them.
type Notifier interface {
	NotifySubscriptionCreated(ctx context.Context, sub *models.Subscription)
	NotifyPaymentFailed(ctx context.Context, sub *models.Subscription)
	NotifySubscriptionCompleted(ctx context.Context, sub *models.Subscription)
}

type emailNotifier struct {
	client *postmark.Client
	sender string
	log    *zap.SugaredLogger
}

// New returns a Postmark-backed notifier, or a logging no-op when mail is not
// configured (dev environments).
func New(cfg *cfgpkg.Config, log *zap.SugaredLogger) Notifier {
	if cfg.Mail.ServerToken == "" || cfg.Mail.SenderEmail == "" {
		log.Infow("mail not configured, notifications are log-only")
		return &noopNotifier{log: log}
	}
	return &emailNotifier{
		client: postmark.NewClient(cfg.Mail.ServerToken, cfg.Mail.AccountToken),
		sender: cfg.Mail.SenderEmail,
		log:    log,
	}
}

func (n *emailNotifier) NotifySubscriptionCreated(ctx context.Context, sub *models.Subscription) {
	n.send(ctx, sub, "subscription_created",
		"ご契約ありがとうございます",
		fmt.Sprintf("%s 様\n\n定期プランのお申し込みを受け付けました。初回のお届けから毎回 %d 食をお届けします。",
			sub.ShippingAddress.Name, sub.MealsPerDelivery))
}

func (n *emailNotifier) NotifyPaymentFailed(ctx context.Context, sub *models.Subscription) {
	n.send(ctx, sub, "payment_failed",
		"お支払いに失敗しました",
		fmt.Sprintf("%s 様\n\n定期プランのお支払いを確認できませんでした。お支払い方法をご確認ください。",
			sub.ShippingAddress.Name))
}

func (n *emailNotifier) NotifySubscriptionCompleted(ctx context.Context, sub *models.Subscription) {
	n.send(ctx, sub, "subscription_completed",
		"全てのお届けが完了しました",
		fmt.Sprintf("%s 様\n\n定期プランの全 %d 回のお届けが完了しました。ご利用ありがとうございました。",
			sub.ShippingAddress.Name, sub.TotalDeliveries))
}

func (n *emailNotifier) send(ctx context.Context, sub *models.Subscription, tag, subject, body string) {
	to := sub.ShippingAddress.Email
	if to == "" {
		logctx.FromCtx(ctx, n.log).Warnw("notification skipped, no email", "subscription_id", sub.ID, "tag", tag)
		return
	}
	go func() {
		resp, err := n.client.SendEmail(context.Background(), postmark.Email{
			From:     n.sender,
			To:       to,
			Subject:  subject,
			TextBody: body,
			Tag:      tag,
		})
		if err != nil {
			n.log.Errorw("failed to send notification", "tag", tag, "subscription_id", sub.ID, "err", err)
			return
		}
		if resp.ErrorCode > 0 {
			n.log.Errorw("postmark rejected notification", "tag", tag, "subscription_id", sub.ID, "code", resp.ErrorCode, "message", resp.Message)
		}
	}()
}

type noopNotifier struct {
	log *zap.SugaredLogger
}

func (n *noopNotifier) NotifySubscriptionCreated(ctx context.Context, sub *models.Subscription) {
	logctx.FromCtx(ctx, n.log).Infow("notify_subscription_created", "subscription_id", sub.ID)
}

func (n *noopNotifier) NotifyPaymentFailed(ctx context.Context, sub *models.Subscription) {
	logctx.FromCtx(ctx, n.log).Infow("notify_payment_failed", "subscription_id", sub.ID)
}

func (n *noopNotifier) NotifySubscriptionCompleted(ctx context.Context, sub *models.Subscription) {
	logctx.FromCtx(ctx, n.log).Infow("notify_subscription_completed", "subscription_id", sub.ID)
}
