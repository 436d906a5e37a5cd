package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Game struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"priceCents"`
	Price       string     `json:"price"`
	ReleaseDate time.Time  `json:"releaseDate"`
	Developer   string     `json:"developer"`
	Publisher   string     `json:"publisher"`
	CoverImage  *string    `json:"coverImage"`
	Categories  []Category `json:"categories,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"-"`
}

// GameSummary is the slice of a game embedded in carts, wishlists and reviews.
type GameSummary struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	PriceCents int64   `json:"priceCents"`
	Price      string  `json:"price"`
	CoverImage *string `json:"coverImage"`
}

type GameUpdate struct {
	Title       *string
	Description *string
	PriceCents  *int64
	ReleaseDate *time.Time
	Developer   *string
	Publisher   *string
	CoverImage  *string
}

func (u GameUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.PriceCents == nil && u.ReleaseDate == nil &&
		u.Developer == nil && u.Publisher == nil && u.CoverImage == nil
}

// FormatPrice renders cents as a decimal string, e.g. 5999 -> "59.99".
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ParsePrice converts a decimal string with at most two fraction digits to
// cents.
func ParsePrice(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}
	return units*100 + cents, nil
}
