package httpserver

import (
	"net/http"

	notesvc "winetour-backend/internal/service/note"

	"github.com/gin-gonic/gin"
)

func createNote(svc *notesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposalID, ok := pathID(c, "proposalID")
		if !ok {
			return
		}
		var in notesvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		n, err := svc.Create(c.Request.Context(), proposalID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"note": n})
	}
}

func listNotes(svc *notesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposalID, ok := pathID(c, "proposalID")
		if !ok {
			return
		}
		notes, err := svc.List(c.Request.Context(), proposalID, notesvc.ListInput{
			GeneralOnly: queryBool(c, "generalOnly"),
			ContextType: c.Query("contextType"),
			ContextID:   queryInt64Ptr(c, "contextId"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notes": notes})
	}
}

func unreadNoteCount(svc *notesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposalID, ok := pathID(c, "proposalID")
		if !ok {
			return
		}
		count, err := svc.UnreadCount(c.Request.Context(), proposalID, c.Query("authorType"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread": count})
	}
}

func markNotesRead(svc *notesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposalID, ok := pathID(c, "proposalID")
		if !ok {
			return
		}
		var in struct {
			AuthorType string `json:"authorType"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		if err := svc.MarkAsRead(c.Request.Context(), proposalID, in.AuthorType); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func markNoteRead(svc *notesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		noteID, ok := pathID(c, "noteID")
		if !ok {
			return
		}
		if err := svc.MarkNoteAsRead(c.Request.Context(), noteID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
