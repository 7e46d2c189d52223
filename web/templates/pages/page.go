// Package pages holds the templ components behind every HTML page.
// The *_templ.go files are produced by `templ generate`.
package pages

import (
	"fmt"
	"strconv"

	"campus-canteen/internal/middleware"
	"campus-canteen/internal/models"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.2.793 generate

// Page is what the layout needs on every request
type Page struct {
	Title     string
	User      *models.User
	Principal *models.Principal
	Flashes   []middleware.Flash
	CSRFToken string
	CartCount int
}

func (p Page) principalName() string {
	if p.Principal == nil {
		return ""
	}
	return p.Principal.Name
}

func (p Page) principalEmail() string {
	if p.Principal == nil {
		return ""
	}
	return p.Principal.Email
}

func money(v float64) string {
	return fmt.Sprintf("Rs.%.2f", v)
}

func cartBadge(count int) string {
	if count <= 0 {
		return ""
	}
	return " (" + strconv.Itoa(count) + ")"
}

func idPath(prefix string, id int) string {
	return prefix + strconv.Itoa(id)
}
