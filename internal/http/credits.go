package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/session"
)

// CreditsController shows and edits the role and position of one credit.
type CreditsController struct {
	pages
	credits CreditStore
}

func NewCreditsController(credits CreditStore, sessions *session.Manager) *CreditsController {
	return &CreditsController{
		pages:   pages{sessions: sessions},
		credits: credits,
	}
}

func (cc *CreditsController) loadCredit(c *gin.Context) (*entities.Credit, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	credit, err := cc.credits.GetCreditByID(id)
	if err != nil {
		respondLookupError(c, err, "Credit")
		return nil, false
	}
	return credit, true
}

// Show renders a credit.
// GET /credits/:id
func (cc *CreditsController) Show(c *gin.Context) {
	credit, ok := cc.loadCredit(c)
	if !ok {
		return
	}
	cc.render(c, http.StatusOK, "credit", gin.H{"Credit": credit})
}

// Edit renders the credit form.
// GET /credits/:id/edit
func (cc *CreditsController) Edit(c *gin.Context) {
	credit, ok := cc.loadCredit(c)
	if !ok {
		return
	}
	cc.render(c, http.StatusOK, "edit_credit", gin.H{
		"Credit": credit,
		"Roles":  entities.Roles,
	})
}

type creditForm struct {
	Role  string `form:"role" binding:"required,oneof=author editor translator illustrator annotator"`
	Order int    `form:"order" binding:"required,min=1"`
}

// Update saves the credit's role and order.
// POST /credits/:id/edit
func (cc *CreditsController) Update(c *gin.Context) {
	credit, ok := cc.loadCredit(c)
	if !ok {
		return
	}

	var form creditForm
	if err := c.ShouldBind(&form); err != nil {
		cc.render(c, http.StatusBadRequest, "edit_credit", gin.H{
			"Credit": credit,
			"Roles":  entities.Roles,
			"Error":  "Pick a role and an order of 1 or more",
		})
		return
	}

	if err := cc.credits.UpdateCredit(credit.ID, entities.Role(form.Role), form.Order); err != nil {
		respondLookupError(c, err, "Credit")
		return
	}

	cc.flash(c, session.FlashSuccess, "Credit updated")
	c.Redirect(http.StatusFound, fmt.Sprintf("/credits/%d", credit.ID))
}

// Delete removes the credit and returns to its book.
// POST /credits/:id/delete
func (cc *CreditsController) Delete(c *gin.Context) {
	credit, ok := cc.loadCredit(c)
	if !ok {
		return
	}
	if err := cc.credits.DeleteCredit(credit.ID); err != nil {
		respondInternalError(c, err, "delete credit")
		return
	}
	cc.flash(c, session.FlashSuccess, "Credit removed")
	c.Redirect(http.StatusFound, bookURL(credit.BookID))
}
