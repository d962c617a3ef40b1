package bootstrap

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/cmd/mainconfig"
	appconfig "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/config"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/notify"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// BuildNotifier picks the operator e-mail transport. Misconfigured providers
// fall back to the stub sender so lead capture keeps working.
func BuildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.Service {
	if logger == nil {
		logger = logging.Default()
	}

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sg != nil {
			sender = sg
		} else {
			logger.Warn("SENDGRID_API_KEY missing, using stub e-mail sender")
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, using stub e-mail sender", "error", err)
			break
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	if sender == nil {
		sender = notify.NewStubEmailSender(logger)
	}
	return notify.NewService(sender, cfg.LeadNotifyEmails, logger)
}
