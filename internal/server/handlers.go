package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kamal-hamza/folio/internal/core/domain"
	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/internal/views"
)

// MsgFeedStale is shown above the grid when the last refresh failed
const MsgFeedStale = "Could not refresh posts. Showing the last known list."

type apiError struct {
	Detail string `json:"detail"`
}

// apiPage mirrors the paginated list shape of the remote posts API
type apiPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []domain.FeedPost `json:"results"`
}

type health struct {
	Status      string `json:"status"`
	Posts       int    `json:"posts"`
	FeedRemote  bool   `json:"feedRemote"`
	FeedCards   int    `json:"feedCards"`
	LastFeedErr string `json:"lastFeedError,omitempty"`
}

func (s *Server) handleHome(c echo.Context) error {
	state := s.feed.State()

	subtitle := ""
	if !state.RefreshedAt.IsZero() {
		subtitle = "Updated " + state.RefreshedAt.Format("January 2, 2006 15:04")
	}

	var notice = stack()
	if state.LastErr != nil {
		notice = views.Notification(MsgFeedStale, "warning")
	}

	return Render(c, views.Page(s.Config.SiteTitle, stack(
		views.Heading(s.Config.SiteTitle, subtitle),
		notice,
		views.BlogGrid(state.Posts),
	)))
}

func (s *Server) handlePost(c echo.Context) error {
	id := c.Param("id")

	post, err := s.feed.Open(c.Request().Context(), id)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, domain.ErrPostNotFound) {
			code = http.StatusNotFound
		}
		return RenderStatus(c, code, views.Page(s.Config.SiteTitle, stack(
			views.Heading(s.Config.SiteTitle, ""),
			views.Notification(services.MsgPostLoadFailed, "error"),
			views.BlogGrid(s.feed.Posts()),
		)))
	}

	return Render(c, views.Page(post.Title, views.PostDetail(*post)))
}

func (s *Server) handleHealth(c echo.Context) error {
	state := s.feed.State()
	h := health{
		Status:     "ok",
		Posts:      s.store.Len(),
		FeedRemote: state.Remote,
		FeedCards:  len(state.Posts),
	}
	if state.LastErr != nil {
		h.LastFeedErr = state.LastErr.Error()
	}
	return c.JSON(http.StatusOK, h)
}

// handleAPIList serves GET /api/posts/?status=&search=&category=&page=
// status defaults to published; "all" lists every post.
func (s *Server) handleAPIList(c echo.Context) error {
	ctx := c.Request().Context()
	// Another process may have written the store since the last request
	s.store.Load(ctx)

	req := services.ListRequest{
		Search:  c.QueryParam("search"),
		SortBy:  "created",
		Reverse: true,
	}
	switch status := c.QueryParam("status"); status {
	case "":
		req.Status = domain.StatusPublished
	case "all":
	default:
		st, err := domain.ParseStatus(status)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.Status = st
	}

	resp, err := s.list.Execute(ctx, req)
	if err != nil {
		return err
	}

	category := strings.TrimSpace(c.QueryParam("category"))
	var matched []domain.FeedPost
	for _, p := range resp.Posts {
		if category != "" && !matchesCategory(p, category) {
			continue
		}
		matched = append(matched, domain.FeedPostFromPost(p, s.Config.Author))
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusNotFound, "Invalid page.")
		}
		page = n
	}

	size := s.Config.PageSize
	start := (page - 1) * size
	if start > 0 && start >= len(matched) {
		return echo.NewHTTPError(http.StatusNotFound, "Invalid page.")
	}
	end := min(start+size, len(matched))

	out := apiPage{
		Count:   len(matched),
		Results: make([]domain.FeedPost, 0, end-start),
	}
	out.Results = append(out.Results, matched[start:end]...)
	if end < len(matched) {
		next := pageURL(c, page+1)
		out.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		out.Previous = &prev
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleAPIGet(c echo.Context) error {
	s.store.Load(c.Request().Context())

	post, ok := s.store.FindByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return c.JSON(http.StatusOK, domain.FeedPostFromPost(post, s.Config.Author))
}

// matchesCategory accepts either the category name or its slug
func matchesCategory(p domain.Post, category string) bool {
	return strings.EqualFold(p.Category, category) ||
		domain.GenerateSlug(p.Category) == strings.ToLower(category)
}

func pageURL(c echo.Context, page int) string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return fmt.Sprintf("%s://%s%s", c.Scheme(), c.Request().Host, u.RequestURI())
}
