package publicapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/record"
)

// handleGetMenu returns the raw publication note for a publicId. The
// caller decodes it client-side; serving the note unchanged keeps the
// endpoint free of catalog knowledge.
func (s *Server) handleGetMenu(c *gin.Context) {
	publicID := c.Query("publicId")
	if publicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publicId is required"})
		return
	}

	note, ok := s.findMenuNote(c.Request.Context(), publicID, c.Query("note"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
		return
	}
	c.JSON(http.StatusOK, note)
}

type orderItemRequest struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type orderRequest struct {
	PublicID     string             `json:"publicId" validate:"required"`
	Note         string             `json:"note"`
	CustomerName string             `json:"customerName" validate:"max=120"`
	Remark       string             `json:"remark" validate:"max=500"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// handlePostOrder verifies the menu behind the publicId, renders the
// selection as an order note and appends it.
func (s *Server) handlePostOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	note, ok := s.findMenuNote(ctx, req.PublicID, req.Note)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
		return
	}
	menu, ok := s.cdc.DecodeMenu(ctx, note)
	if !ok || !menu.AllowPublicOrder || menu.PublicID != req.PublicID {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu not found"})
		return
	}

	selections := make([]record.Selection, 0, len(req.Items))
	for _, it := range req.Items {
		item, found := menu.FindItem(it.ItemID)
		if !found {
			item, found = findItemByName(menu, it.Name)
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown menu item"})
			return
		}
		selections = append(selections, record.Selection{Item: item, Quantity: it.Quantity})
	}

	content := record.BuildOrderContent(menu, selections, req.CustomerName, req.Remark)
	created, err := s.store.CreateNote(ctx, content, core.VisibilityPublic)
	if err != nil {
		s.logger.Error("order note create failed", "menu", menu.ID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "order could not be recorded"})
		return
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, menu, created); err != nil {
			s.logger.Warn("order notification failed", "menu", menu.ID, "note", created.Name, "err", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"name": created.Name})
}

// findMenuNote locates a publication note carrying the publicId: the
// hinted note when it checks out, otherwise a bounded scan of the
// public timeline.
func (s *Server) findMenuNote(ctx context.Context, publicID, hint string) (core.Note, bool) {
	if hint != "" {
		if note, err := s.store.GetNote(ctx, hint); err == nil && verifyMenuNote(note, publicID) {
			return note, true
		}
	}

	token := ""
	for page := 0; page < s.maxScanPages; page++ {
		res, err := s.store.ListNotes(ctx, token)
		if err != nil {
			s.logger.Warn("menu scan page failed", "err", err)
			break
		}
		for _, n := range res.Notes {
			if verifyMenuNote(n, publicID) {
				return n, true
			}
		}
		if res.NextPageToken == "" {
			break
		}
		token = res.NextPageToken
	}
	return core.Note{}, false
}

// verifyMenuNote is the cheap pre-check applied before any decoding: the
// note must be public, carry the publication tag and mention the token.
func verifyMenuNote(n core.Note, publicID string) bool {
	return n.Visibility == core.VisibilityPublic &&
		record.Classify(n) == record.SignalMenuPub &&
		strings.Contains(n.Content, publicID)
}

func findItemByName(menu core.Menu, name string) (core.MenuItem, bool) {
	if name == "" {
		return core.MenuItem{}, false
	}
	for _, it := range menu.Items {
		if it.Name == name {
			return it, true
		}
	}
	return core.MenuItem{}, false
}
