package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classportal/core"
)

type Announcement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Author   string    `json:"author"`    // name of the posting teacher
	PostedAt time.Time `json:"posted_at"` // UTC
}

type NewAnnouncement struct {
	Title string `json:"title" validate:"required,max=128"`
	Body  string `json:"body" validate:"required,max=4096"`
}

func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Body = core.CleanString(na.Body)
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}
