package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/entities"
)

// CatalogCounts are the totals shown on the home page.
type CatalogCounts struct {
	Books              int64
	BookInstances      int64
	AvailableInstances int64
	Authors            int64
	Genres             int64
}

type HomeController struct {
	pages
	catalog Catalog
}

func NewHomeController(p pages, catalog Catalog) *HomeController {
	return &HomeController{pages: p, catalog: catalog}
}

// Index renders the catalog totals. A failed count is reported on the page
// itself rather than as an error page.
// GET /catalog
func (hc *HomeController) Index(c *gin.Context) {
	var counts CatalogCounts

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		counts.Books, err = hc.catalog.Books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = hc.catalog.Instances.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.AvailableInstances, err = hc.catalog.Instances.CountByStatus(ctx, entities.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = hc.catalog.Authors.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = hc.catalog.Genres.Count(ctx)
		return err
	})

	data := gin.H{"Title": "Local Library Home"}
	if err := g.Wait(); err != nil {
		hc.logger.Error("failed to count catalog records", zap.Error(err))
		data["Error"] = "Could not load the catalog totals."
	} else {
		data["Counts"] = counts
	}

	hc.render(c, http.StatusOK, "index", data)
}
