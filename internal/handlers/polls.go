package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/services"
	"github.com/gin-gonic/gin"
)

const talliesHiddenMessage = "Authenticate to see current tallies"

type PollsHandler struct {
	polls *services.Polls
}

type CreatePollRequest struct {
	Question  string     `json:"question" binding:"required"`
	Options   []string   `json:"options" binding:"required,min=2"`
	StartDate *time.Time `json:"startDate" binding:"required"`
	EndDate   *time.Time `json:"endDate" binding:"required"`
}

// UpdatePollRequest fields are optional. A present options array replaces
// the whole option set.
type UpdatePollRequest struct {
	Question  *string    `json:"question"`
	Options   []string   `json:"options"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type VoteRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

type OptionResponse struct {
	ID    string `json:"optionId"`
	Text  string `json:"text"`
	Votes *int64 `json:"votes,omitempty"`
}

type PollResponse struct {
	ID        string           `json:"id"`
	Question  string           `json:"question"`
	Options   []OptionResponse `json:"options"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	CreatedBy string           `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
	Status    string           `json:"status,omitempty"`
}

type ResultsResponse struct {
	PollResponse
	TotalVotes int64 `json:"totalVotes"`
}

func NewPollsHandler(polls *services.Polls) *PollsHandler {
	return &PollsHandler{polls: polls}
}

func (h *PollsHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err)})
		return
	}

	var start, end time.Time
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}

	poll, err := h.polls.CreatePoll(c.Request.Context(), req.Question, req.Options, start, end, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPollResponse(poll, "", false))
}

func (h *PollsHandler) ListPolls(c *gin.Context) {
	filter := entity.ParsePollFilter(c.Query("status"))

	views, err := h.polls.ListPolls(c.Request.Context(), filter, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]PollResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newPollResponse(v.Poll, string(v.Phase), v.TalliesHidden))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PollsHandler) GetPoll(c *gin.Context) {
	v, err := h.polls.GetPoll(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := newPollResponse(v.Poll, string(v.Phase), v.TalliesHidden)
	if v.TalliesHidden {
		c.JSON(http.StatusOK, gin.H{"poll": resp, "message": talliesHiddenMessage})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PollsHandler) UpdatePoll(c *gin.Context) {
	var req UpdatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input"})
		return
	}

	patch := entity.PollPatch{
		Question:  req.Question,
		Options:   req.Options,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	poll, err := h.polls.UpdatePoll(c.Request.Context(), c.Param("id"), patch, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPollResponse(poll, "", false))
}

func (h *PollsHandler) DeletePoll(c *gin.Context) {
	if err := h.polls.DeletePoll(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll deleted"})
}

func (h *PollsHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err)})
		return
	}

	if err := h.polls.Vote(c.Request.Context(), c.Param("id"), req.OptionID, middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

func (h *PollsHandler) Results(c *gin.Context) {
	poll, err := h.polls.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResultsResponse{
		PollResponse: newPollResponse(poll, "closed", false),
		TotalVotes:   poll.TotalVotes(),
	})
}

func newPollResponse(poll entity.Poll, status string, hideTallies bool) PollResponse {
	opts := make([]OptionResponse, 0, len(poll.Options))
	for _, o := range poll.Options {
		opt := OptionResponse{ID: o.ID, Text: o.Text}
		if !hideTallies {
			votes := o.Votes
			opt.Votes = &votes
		}
		opts = append(opts, opt)
	}

	return PollResponse{
		ID:        poll.ID,
		Question:  poll.Question,
		Options:   opts,
		StartDate: poll.StartDate,
		EndDate:   poll.EndDate,
		CreatedBy: poll.CreatedBy,
		CreatedAt: poll.CreatedAt,
		Status:    status,
	}
}
