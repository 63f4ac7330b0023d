package server

import (
	"net/http"
	"strings"

	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/gin-gonic/gin"
)

type createWalletRequest struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (s *Server) CreateWallet(c *gin.Context) {
	var req createWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	resp, err := s.store.AddWallet(c.Request.Context(), storedomain.AddWalletRequest{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListWallets(c *gin.Context) {
	resp, err := s.store.ListWallets(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		resp = []storedomain.Wallet{}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateWalletRequest struct {
	Name     *string `json:"name"`
	Active   *bool   `json:"active"`
	ImageRef *string `json:"image_ref"`
}

func (s *Server) UpdateWallet(c *gin.Context) {
	walletID := strings.TrimSpace(c.Param("id"))

	var req updateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.store.UpdateWallet(c.Request.Context(), walletID, storedomain.WalletPatch{
		Name:     req.Name,
		Active:   req.Active,
		ImageRef: req.ImageRef,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
