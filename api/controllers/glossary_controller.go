package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/glossary"
)

type GlossaryController struct {
	app *models.App
}

func NewGlossaryController(app *models.App) *GlossaryController {
	return &GlossaryController{app: app}
}

// HandleSearch GET /api/self/v1/glossary?q=&category=
func (ctrl *GlossaryController) HandleSearch(c *gin.Context) {
	g := ctrl.app.Glossary
	language := ctrl.app.Preferences.Language()
	if lang := c.Query("lang"); lang != "" {
		language = lang
	}
	terms := g.Search(c.Query("q"), c.Query("category"))
	titles := make(map[string]string, len(terms))
	for _, t := range terms {
		titles[t.Term] = glossary.Title(t, language)
	}
	c.JSON(http.StatusOK, gin.H{
		"terms":         terms,
		"titles":        titles,
		"categories":    g.Categories(),
		"bestPractices": g.BestPractices(),
		"language":      language,
	})
}
