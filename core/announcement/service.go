package announcement

import (
	"context"
	"embed"
	"errors"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
)

var (
	//go:embed templates
	templatesFS embed.FS

	textTmpl = texttmpl.Must(texttmpl.ParseFS(templatesFS, "templates/announcement.txt"))
	htmlTmpl = htmltmpl.Must(htmltmpl.ParseFS(templatesFS, "templates/announcement.html"))

	// errors
	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, an Announcement) (Announcement, error)
		// QueryAnnouncements returns announcements newest first.
		QueryAnnouncements(ctx context.Context) ([]Announcement, error)
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	// RecipientLister lists who gets announcements by email.
	RecipientLister interface {
		Recipients(ctx context.Context) ([]mail.Address, error)
	}

	Service interface {
		// Post stores the announcement then emails it to every recipient.
		Post(ctx context.Context, na NewAnnouncement, author string) (Announcement, error)
		List(ctx context.Context) ([]Announcement, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo       Repository
		recipients RecipientLister
		mailSvc    core.EmailService
		logger     core.Logger
		conf       *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	recipients RecipientLister,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) Service {
	return &service{
		repo:       repo,
		recipients: recipients,
		mailSvc:    mailSvc,
		logger:     logger,
		conf:       conf,
	}
}

// Post expects na to be validated already.
// Failing to list recipients is logged: the announcement is posted anyway.
func (svc *service) Post(ctx context.Context, na NewAnnouncement, author string) (Announcement, error) {
	na.Clean()
	an, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		ID:       uuid.NewString(),
		Title:    na.Title,
		Body:     na.Body,
		Author:   core.CleanString(author),
		PostedAt: core.NowFunc().Truncate(time.Second),
	})
	if err != nil {
		return Announcement{}, pkgerrors.Wrap(err, "creating announcement")
	}

	addrs, err := svc.recipients.Recipients(ctx)
	if err != nil {
		svc.logger.Error(pkgerrors.Wrap(err, "listing announcement recipients").Error())
		return an, nil
	}
	if len(addrs) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{svc.conf.DefaultFromEmail()},
			Bcc:          addrs,
			Subject:      an.Title,
			TextTemplate: textTmpl,
			HTMLTemplate: htmlTmpl,
			TemplateData: struct {
				Announcement
				AppName string
			}{an, svc.conf.AppName},
		})
	}
	return an, nil
}

func (svc *service) List(ctx context.Context) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAnnouncement(ctx, core.CleanString(id))
}
