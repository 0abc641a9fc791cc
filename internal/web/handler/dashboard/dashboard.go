// Package dashboard provides the dashboard handler listing the user's recipes.
package dashboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/guard"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/navigation"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = guard.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 12

	maxPageSize    = 100
	defaultTimeout = 30 * time.Second

	desc = "desc"
)

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page        int
	PageSize    int
	SearchQuery string
	Category    string
	Visibility  string
	SortField   string
	SortOrder   string
}

// Data represents the dashboard page.
type Data struct {
	Recipes     []api.Recipe
	Categories  []string
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	Params      QueryParams
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	registry *session.Registry
}

// Handler is the dashboard handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error {
	if app == nil || cfg == nil || registry == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.registry = registry

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard").
		AddBreadcrumb("Home", guard.HomePath, false).
		AddBreadcrumb("Dashboard", Path, true)

	params := parseParams(c)

	v, err := s.registry.Ensure(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	recipes, err := v.API.Recipes(ctx)
	if err != nil {
		if handler.Rejected(c, err) {
			return handler.Reauthenticate(c, s.registry, v, c.OriginalURL())
		}

		log.Error().Err(err).Msg("failed to fetch recipes")

		c.Status(fiber.StatusBadGateway)

		return handler.Render(c, s.cfg, TemplateName, nav, fiber.Map{
			"error": handler.ErrUpstream.Error(),
			"Data":  Data{Params: params},
		})
	}

	categories := categoriesOf(recipes)

	recipes = filterRecipes(recipes, params.SearchQuery, params.Category, params.Visibility)
	sortRecipes(recipes, params.SortField, params.SortOrder)

	page, totalPages, actualPage := paginate(recipes, params.Page, params.PageSize)
	params.Page = actualPage

	data := Data{
		Recipes:     page,
		Categories:  categories,
		CurrentPage: actualPage,
		PageSize:    params.PageSize,
		TotalItems:  len(recipes),
		TotalPages:  totalPages,
		HasPrevPage: actualPage > 1,
		HasNextPage: actualPage < totalPages,
		PrevPage:    actualPage - 1,
		NextPage:    actualPage + 1,
		Params:      params,
	}

	log.Debug().
		Int("recipes", len(recipes)).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.SearchQuery).
		Str("sort_field", params.SortField).
		Msg("dashboard recipes retrieved")

	return handler.Render(c, s.cfg, TemplateName, nav, fiber.Map{"Data": data})
}

func parseParams(c *fiber.Ctx) QueryParams {
	params := QueryParams{
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery: strings.TrimSpace(c.Query("search")),
		Category:    c.Query("category"),
		Visibility:  c.Query("visibility"),
		SortField:   c.Query("sort", "updated"),
		SortOrder:   c.Query("order", desc),
	}

	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = DefaultPageSize
	}

	return params
}

// categoriesOf returns the sorted distinct category names.
func categoriesOf(recipes []api.Recipe) []string {
	seen := map[string]bool{}
	out := make([]string, 0)

	for i := range recipes {
		if cat := recipes[i].Category; cat != nil && cat.Name != "" && !seen[cat.Name] {
			seen[cat.Name] = true
			out = append(out, cat.Name)
		}
	}

	sort.Strings(out)

	return out
}

// filterRecipes applies the search, category and visibility filters.
func filterRecipes(recipes []api.Recipe, search, category, visibility string) []api.Recipe {
	search = strings.ToLower(search)
	out := make([]api.Recipe, 0, len(recipes))

	for i := range recipes {
		r := &recipes[i]

		if search != "" && !matches(r, search) {
			continue
		}

		if category != "" && (r.Category == nil || r.Category.Name != category) {
			continue
		}

		switch visibility {
		case "public":
			if !r.IsPublic {
				continue
			}
		case "private":
			if r.IsPublic {
				continue
			}
		}

		out = append(out, *r)
	}

	return out
}

func matches(r *api.Recipe, search string) bool {
	if strings.Contains(strings.ToLower(r.Name), search) {
		return true
	}

	for _, ingredient := range r.Ingredients {
		if strings.Contains(strings.ToLower(ingredient), search) {
			return true
		}
	}

	return false
}

// sortRecipes sorts recipes by the specified field and order.
func sortRecipes(recipes []api.Recipe, sortField, sortOrder string) {
	var less func(a, b *api.Recipe) bool

	switch sortField {
	case "name":
		less = func(a, b *api.Recipe) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "time":
		less = func(a, b *api.Recipe) bool { return a.TotalTime() < b.TotalTime() }
	case "created":
		less = func(a, b *api.Recipe) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		less = func(a, b *api.Recipe) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		if sortOrder == desc {
			return less(&recipes[j], &recipes[i])
		}

		return less(&recipes[i], &recipes[j])
	})
}

// paginate returns the requested page, the page count and the page actually served.
func paginate(recipes []api.Recipe, page, pageSize int) (paginated []api.Recipe, totalPages, actualPage int) {
	totalItems := len(recipes)

	totalPages = (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	startIdx := (page - 1) * pageSize
	endIdx := min(startIdx+pageSize, totalItems)

	if startIdx >= totalItems {
		return []api.Recipe{}, totalPages, page
	}

	return recipes[startIdx:endIdx], totalPages, page
}
