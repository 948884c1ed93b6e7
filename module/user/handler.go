package user

import (
	"net/http"

	"ChatLink/logger"
	midsec "ChatLink/middleware/security"
	msgstore "ChatLink/module/chat/message"
	"ChatLink/module/user/service"
	"ChatLink/service/chat"

	"github.com/gin-gonic/gin"
)

// Handler serves the read-side REST surface: the contact list and the
// conversation history an offline recipient catches up through.
type Handler struct {
	users *service.Store
	msgs  *msgstore.Store
}

func NewHandler(users *service.Store, msgs *msgstore.Store) *Handler {
	return &Handler{users: users, msgs: msgs}
}

// Mount registers the routes on an already-authenticated group.
func (h *Handler) Mount(r gin.IRoutes) {
	r.GET("", h.HandlerListUsers)
	r.GET("/messages/:userId", h.HandlerConversation)
}

// HandlerListUsers returns every user except the requester, sorted by
// display name. Password hashes never leave the store projection.
func (h *Handler) HandlerListUsers(c *gin.Context) {
	selfID := c.GetString(midsec.CtxUserIDKey)

	users, err := h.users.ListOthers(c.Request.Context(), selfID)
	if err != nil {
		logger.Errorf("[users] list self=%s err=%v", selfID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while fetching users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// HandlerConversation returns the full two-way history between the
// requester and :userId, oldest first, with display names resolved.
func (h *Handler) HandlerConversation(c *gin.Context) {
	selfID := c.GetString(midsec.CtxUserIDKey)
	otherID := c.Param("userId")

	msgs, err := h.msgs.ListConversation(c.Request.Context(), selfID, otherID)
	if err != nil {
		logger.Errorf("[users] conversation self=%s other=%s err=%v", selfID, otherID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while fetching messages"})
		return
	}

	refs := map[string]chat.UserRef{}
	for _, id := range []string{selfID, otherID} {
		if u, err := h.users.FindByID(c.Request.Context(), id); err == nil {
			refs[id] = chat.UserRef{ID: u.UserID, Name: u.Name}
		} else {
			refs[id] = chat.UserRef{ID: id, Name: id}
		}
	}

	out := make([]chat.MessageEvent, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		out = append(out, chat.BuildMessageEvent(m, refs[m.SenderID], refs[m.RecvID]))
	}
	c.JSON(http.StatusOK, out)
}
