package theme

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
)

// ErrNoScheme is returned by repositories when no scheme was saved yet.
var ErrNoScheme = errors.New("no color scheme saved")

type (
	Repository interface {
		LoadScheme(ctx context.Context) (ColorScheme, error)
		// SaveScheme replaces the previously saved scheme.
		SaveScheme(ctx context.Context, cs ColorScheme) error
	}

	Service interface {
		// Load returns the saved scheme, or DefaultScheme when there is none or it cannot be read.
		Load(ctx context.Context) (ColorScheme, error)
		Save(ctx context.Context, cs ColorScheme) (ColorScheme, error)
		Reset(ctx context.Context) (ColorScheme, error)
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) Load(ctx context.Context) (ColorScheme, error) {
	cs, err := svc.repo.LoadScheme(ctx)
	if err != nil {
		if pkgerrors.Cause(err) != ErrNoScheme {
			svc.logger.Error(pkgerrors.Wrap(err, "loading color scheme, using the default one").Error())
		}
		return DefaultScheme, nil
	}
	if !cs.IsValid() {
		svc.logger.Warn("saved color scheme is invalid, using the default one", map[string]interface{}{"scheme": cs})
		return DefaultScheme, nil
	}
	return cs, nil
}

// Save persists cs. cs is expected to be validated already.
func (svc *service) Save(ctx context.Context, cs ColorScheme) (ColorScheme, error) {
	cs.Clean()
	if err := svc.repo.SaveScheme(ctx, cs); err != nil {
		return ColorScheme{}, pkgerrors.Wrap(err, "saving color scheme")
	}
	return cs, nil
}

func (svc *service) Reset(ctx context.Context) (ColorScheme, error) {
	return svc.Save(ctx, DefaultScheme)
}
