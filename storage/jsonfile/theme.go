package jsonfile

import (
	"context"

	"github.com/trezcool/classportal/core/theme"
)

type themeRepository struct {
	file file
}

var _ theme.Repository = (*themeRepository)(nil) // interface compliance check

// NewThemeRepository stores the colour scheme in the JSON file at path, eg: color_scheme.json
func NewThemeRepository(path string) theme.Repository {
	return &themeRepository{file: file{path: path}}
}

func (repo *themeRepository) LoadScheme(_ context.Context) (theme.ColorScheme, error) {
	var cs theme.ColorScheme
	found, err := repo.file.read(&cs)
	if err != nil {
		return theme.ColorScheme{}, err
	}
	if !found {
		return theme.ColorScheme{}, theme.ErrNoScheme
	}
	return cs, nil
}

func (repo *themeRepository) SaveScheme(_ context.Context, cs theme.ColorScheme) error {
	return repo.file.write(cs)
}
