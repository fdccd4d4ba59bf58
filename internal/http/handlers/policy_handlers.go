package handlers

import (
	"net/http"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/gin-gonic/gin"
)

// PolicyHandlers manages the admin API authorization rules
type PolicyHandlers struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(enforcer domain.CasbinEnforcer) *PolicyHandlers {
	return &PolicyHandlers{enforcer: enforcer}
}

type policyReq struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

// List returns every stored policy
func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.enforcer.GetPolicy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

// Add stores a new policy
func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := h.enforcer.AddPolicy(r.Sub, r.Obj, r.Act)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not added"})
		return
	}
	if err := h.enforcer.SavePolicy(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save policies"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove deletes a policy
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := h.enforcer.RemovePolicy(r.Sub, r.Obj, r.Act)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not removed"})
		return
	}
	if err := h.enforcer.SavePolicy(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save policies"})
		return
	}
	c.Status(http.StatusNoContent)
}
