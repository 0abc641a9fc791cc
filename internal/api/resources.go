package api

import (
	"context"
	"strings"
	"time"
)

// Upstream resource endpoints.
const (
	RecipesPath   = "/recipes"
	MyProfilePath = "/profiles/me"
	ProfilesPath  = "/profiles"
)

// Category groups recipes.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recipe is a recipe as returned by the API.
type Recipe struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	Servings    int       `json:"servings"`
	PrepTime    int       `json:"prep_time"`
	CookTime    int       `json:"cook_time"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	UserID      string    `json:"userId"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TotalTime is preparation plus cooking time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// Profile is a user profile.
type Profile struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	IsPublic  bool      `json:"isPublic"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the profile name or fallback when none is set.
func (p *Profile) DisplayName(fallback string) string {
	if p.Name == nil || *p.Name == "" {
		return fallback
	}

	return *p.Name
}

// Recipes lists the signed in user's recipes.
func (c *Client) Recipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe

	if err := c.Fetch(ctx, RecipesPath, nil, &recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// MyProfile returns the signed in user's profile.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var p Profile

	if err := c.Fetch(ctx, MyProfilePath, nil, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Profile returns the public profile of username.
func (c *Client) Profile(ctx context.Context, username string) (*Profile, error) {
	var p Profile

	if err := c.Fetch(ctx, ProfilesPath+"/"+strings.ReplaceAll(username, "/", ""), nil, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
