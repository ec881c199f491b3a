package user

import (
	"context"
	"embed"
	"errors"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
)

var (
	//go:embed templates
	templatesFS embed.FS

	passwordResetTextTmpl = texttmpl.Must(texttmpl.ParseFS(templatesFS, "templates/password_reset.txt"))
	passwordResetHTMLTmpl = htmltmpl.Must(htmltmpl.ParseFS(templatesFS, "templates/password_reset.html"))
)

var (
	// errors
	ErrNotFound         = errors.New("user not found")
	ErrEmailExists      = errors.New("a user with this email already exists")
	ErrUsernameExists   = errors.New("a user with this username already exists")
	ErrInvalidResetData = errors.New("invalid password reset data")

	// OrderingFields are the fields users can be ordered by.
	OrderingFields = []string{"name", "username", "email", "role", "created_at", "last_login"}
)

type (
	Repository interface {
		// CheckUsernameUniqueness returns ErrUsernameExists or ErrEmailExists when taken by a user not in excludedUsers.
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields. Newest users come first by default.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
		SetPassword(ctx context.Context, usr User, pwd string) (User, error)
		// Recipients returns the mail addresses of all active users that have one.
		Recipients(ctx context.Context) ([]mail.Address, error)
		// RequestPasswordReset emails a reset token to the active user owning email.
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, data ResetUserPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		tokens  tokenGenerator
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		tokens:  newTokenGenerator(conf),
	}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclUsers...); err != nil {
		var field string
		switch pkgerrors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Create expects nu to be validated already.
func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := core.NowFunc()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, pkgerrors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]User, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryUsers(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: core.CleanString(uname, true /* lower */)})
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = core.NowFunc()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) SetPassword(ctx context.Context, usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, pkgerrors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) Recipients(ctx context.Context) ([]mail.Address, error) {
	active := true
	users, err := svc.repo.QueryUsers(ctx, &QueryFilter{IsActive: &active}, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying users")
	}
	addrs := make([]mail.Address, 0, len(users))
	for _, usr := range users {
		if addr, ok := usr.Address(); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs, nil
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: core.CleanString(email, true /* lower */)})
	if err != nil {
		return err
	}
	if !usr.IsActive || usr.Email == "" {
		return ErrNotFound
	}

	token, err := svc.tokens.makeToken(usr)
	if err != nil {
		return pkgerrors.Wrap(err, "making token")
	}
	addr, _ := usr.Address()
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{addr},
		Subject:      "Password reset",
		TextTemplate: passwordResetTextTmpl,
		HTMLTemplate: passwordResetHTMLTmpl,
		TemplateData: map[string]string{
			"AppName": svc.conf.AppName,
			"Name":    usr.Name,
			"UID":     EncodeUID(usr),
			"Token":   token,
		},
	})
	return nil
}

// ResetPassword expects data to be validated already.
func (svc *service) ResetPassword(ctx context.Context, data ResetUserPassword) error {
	invalid := func() error {
		return core.NewValidationError(ErrInvalidResetData)
	}

	id, err := decodeUID(data.UID)
	if err != nil {
		return invalid()
	}
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return invalid()
		}
		return pkgerrors.Wrap(err, "finding user by ID")
	}
	if !usr.IsActive {
		return invalid()
	}
	if err := svc.tokens.verifyToken(usr, data.Token); err != nil {
		return invalid()
	}
	if err := ValidatePassword(data.Password, usr); err != nil {
		return err
	}
	_, err = svc.SetPassword(ctx, usr, data.Password)
	return err
}
