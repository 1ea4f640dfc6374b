package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kitten-game/dto"
	"kitten-game/middleware"
	"kitten-game/service"
)

type MatchController struct {
	svc *service.MatchService
}

func NewMatchController(svc *service.MatchService) *MatchController {
	return &MatchController{svc: svc}
}

func (m *MatchController) CreateMatch(c *gin.Context) {
	var req dto.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": "缺少必要字段"})
		return
	}
	seat, err := m.svc.CreateMatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "对局创建成功", seat)
}

func (m *MatchController) JoinMatch(c *gin.Context) {
	var req dto.JoinMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": "缺少必要字段"})
		return
	}
	seat, err := m.svc.JoinMatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "加入成功", seat)
}

func (m *MatchController) StartMatch(c *gin.Context) {
	view, err := m.svc.StartMatch(c.Request.Context(), c.Param("matchID"), c.GetString(middleware.CtxPlayerID))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "对局开始", view)
}

func (m *MatchController) SubmitAction(c *gin.Context) {
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": "缺少必要字段"})
		return
	}
	view, err := m.svc.SubmitAction(c.Request.Context(), c.Param("matchID"), c.GetString(middleware.CtxPlayerID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "ok", view)
}

func (m *MatchController) GetMatch(c *gin.Context) {
	view, err := m.svc.GetMatch(c.Request.Context(), c.Param("matchID"), c.GetString(middleware.CtxPlayerID))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "获取成功", view)
}

func (m *MatchController) Poll(c *gin.Context) {
	var last int64
	if raw := c.Query("lastRevision"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "msg": "lastRevision 必须是整数"})
			return
		}
		last = v
	}
	res, err := m.svc.Poll(c.Request.Context(), c.Param("matchID"), c.GetString(middleware.CtxPlayerID), last)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "获取成功", res)
}

func (m *MatchController) PlayerStats(c *gin.Context) {
	profile, err := m.svc.PlayerStats(c.Request.Context(), c.Param("playerID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "获取成功", profile)
}
