package v1

import (
	"fmt"
	"net/http"

	"go-talent-pipeline/internal/delivery/http/response"
	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ScoringHandler struct {
	scoringUC domain.ScoringUsecase
}

func NewScoringHandler(r *gin.RouterGroup, scoringUC domain.ScoringUsecase) {
	handler := &ScoringHandler{scoringUC: scoringUC}

	r.POST("/score/:applicationId", handler.ComputeScore)
	r.GET("/score/:applicationId", handler.GetScore)
	r.GET("/rankings/:jobId", handler.GetRankings)
	r.GET("/rankings/:jobId/export", handler.ExportRankings)
	r.GET("/scoring/configuration/:positionId", handler.GetConfiguration)
	r.POST("/scoring/configuration/:positionId", handler.SaveConfiguration)
}

// SaveConfigurationRequest carries the five factor weights. They must sum to
// exactly 100.
type SaveConfigurationRequest struct {
	SkillWeight      int `json:"skill_weight" binding:"gte=0,lte=100"`
	ExperienceWeight int `json:"experience_weight" binding:"gte=0,lte=100"`
	InterviewWeight  int `json:"interview_weight" binding:"gte=0,lte=100"`
	TestWeight       int `json:"test_weight" binding:"gte=0,lte=100"`
	EducationWeight  int `json:"education_weight" binding:"gte=0,lte=100"`
}

// ComputeScore godoc
// @Summary      Compute an application's score
// @Description  Recompute the weighted multi-factor score from the candidate's current data and persist it. Recomputing overwrites the previous score in place.
// @Tags         scoring
// @Produce      json
// @Param        applicationId  path      int  true  "Application ID"
// @Success      200            {object}  response.Response{data=domain.ScoreResult}
// @Failure      404            {object}  response.Response
// @Router       /score/{applicationId} [post]
// @Security     BearerAuth
func (h *ScoringHandler) ComputeScore(c *gin.Context) {
	applicationID, err := pathID(c, "applicationId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	result, err := h.scoringUC.ComputeScore(c, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Score computed", result)
}

// GetScore godoc
// @Summary      Get an application's stored score
// @Description  Get the most recently computed score with its per-factor breakdown
// @Tags         scoring
// @Produce      json
// @Param        applicationId  path      int  true  "Application ID"
// @Success      200            {object}  response.Response{data=domain.AutomatedScore}
// @Failure      404            {object}  response.Response
// @Router       /score/{applicationId} [get]
// @Security     BearerAuth
func (h *ScoringHandler) GetScore(c *gin.Context) {
	applicationID, err := pathID(c, "applicationId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	score, err := h.scoringUC.GetScore(c, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Score retrieved", score)
}

// GetRankings godoc
// @Summary      Get candidate rankings for a job
// @Description  Get the job's scored applications ordered by total score, highest first
// @Tags         scoring
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response{data=[]domain.RankingEntry}
// @Failure      404    {object}  response.Response
// @Router       /rankings/{jobId} [get]
// @Security     BearerAuth
func (h *ScoringHandler) GetRankings(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	rankings, err := h.scoringUC.GetRankings(c, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Rankings retrieved", rankings)
}

// ExportRankings godoc
// @Summary      Export rankings as a spreadsheet
// @Description  Download the job's ranked candidates as an .xlsx file
// @Tags         scoring
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        jobId  path  int  true  "Job ID"
// @Success      200    {file}    binary
// @Failure      404    {object}  response.Response
// @Router       /rankings/{jobId}/export [get]
// @Security     BearerAuth
func (h *ScoringHandler) ExportRankings(c *gin.Context) {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid job ID"))
		return
	}

	data, filename, err := h.scoringUC.ExportRankings(c, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetConfiguration godoc
// @Summary      Get the scoring configuration for a position
// @Description  Get the active factor weights for a position. The system default is only created lazily by score computation, so a never-scored, never-configured position has none.
// @Tags         scoring
// @Produce      json
// @Param        positionId  path      int  true  "Position ID"
// @Success      200         {object}  response.Response{data=domain.ScoringConfiguration}
// @Failure      404         {object}  response.Response
// @Router       /scoring/configuration/{positionId} [get]
// @Security     BearerAuth
func (h *ScoringHandler) GetConfiguration(c *gin.Context) {
	positionID, err := pathID(c, "positionId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid position ID"))
		return
	}

	cfg, err := h.scoringUC.GetConfiguration(c, positionID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Scoring configuration retrieved", cfg)
}

// SaveConfiguration godoc
// @Summary      Save the scoring configuration for a position
// @Description  Replace the position's factor weights. Weights must each be within 0-100 and sum to exactly 100.
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        positionId  path      int                       true  "Position ID"
// @Param        body        body      SaveConfigurationRequest  true  "Factor weights"
// @Success      200         {object}  response.Response{data=domain.ScoringConfiguration}
// @Failure      400         {object}  response.Response
// @Router       /scoring/configuration/{positionId} [post]
// @Security     BearerAuth
func (h *ScoringHandler) SaveConfiguration(c *gin.Context) {
	positionID, err := pathID(c, "positionId")
	if err != nil {
		c.Error(apperror.BadRequest("Invalid position ID"))
		return
	}

	var req SaveConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	cfg := &domain.ScoringConfiguration{
		PositionID:       positionID,
		SkillWeight:      req.SkillWeight,
		ExperienceWeight: req.ExperienceWeight,
		InterviewWeight:  req.InterviewWeight,
		TestWeight:       req.TestWeight,
		EducationWeight:  req.EducationWeight,
	}

	saved, err := h.scoringUC.SaveConfiguration(c, cfg)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Scoring configuration saved", saved)
}
