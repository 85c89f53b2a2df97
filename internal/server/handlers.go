package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/KickaEttan/internal/engine"
	"github.com/piwi3910/KickaEttan/internal/measure"
	"github.com/piwi3910/KickaEttan/internal/model"
)

// ResolvePlacementRequest asks where one dropped stone comes to rest.
type ResolvePlacementRequest struct {
	StoneID     int             `json:"stone_id"`
	X           *float64        `json:"x" binding:"required"`
	Y           *float64        `json:"y" binding:"required"`
	Stones      []model.Stone   `json:"stones"`
	BannedZones []model.BanZone `json:"banned_zones"`
}

// ResolveCollisionsRequest asks for a whole board to be settled.
type ResolveCollisionsRequest struct {
	Stones      model.Board     `json:"stones"`
	BannedZones model.TeamZones `json:"banned_zones"`
}

// ResolveCollisionsResponse carries the settled board.
type ResolveCollisionsResponse struct {
	ResolvedStones model.Board `json:"resolved_stones"`
}

// PointRequest is a bare position on the sheet.
type PointRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// ClampBanRequest is a ban zone placement. A missing radius takes the
// server's default.
type ClampBanRequest struct {
	X      *float64 `json:"x" binding:"required"`
	Y      *float64 `json:"y" binding:"required"`
	Radius float64  `json:"radius"`
}

// AdjustBanRequest asks how a single zone moves a single stone.
type AdjustBanRequest struct {
	X    *float64       `json:"x" binding:"required"`
	Y    *float64       `json:"y" binding:"required"`
	Zone *model.BanZone `json:"zone"`
}

// MeasureRequest is a position to measure, optionally among other stones.
type MeasureRequest struct {
	X      *float64      `json:"x" binding:"required"`
	Y      *float64      `json:"y" binding:"required"`
	Stones []model.Stone `json:"stones"`
}

// MeasureResponse describes a position relative to the house and the sheet
// lines. NearestStoneGap is only set when a placed stone was given.
type MeasureResponse struct {
	measure.Classification `yaml:",inline"`
	ClosestRing            measure.RingDistance `json:"closest_ring" yaml:"closest_ring"`
	CenterLine             measure.LineOffset   `json:"center_line" yaml:"center_line"`
	TLine                  measure.LineOffset   `json:"t_line" yaml:"t_line"`
	GuardDistance          float64              `json:"guard_distance" yaml:"guard_distance"`
	NearestStoneID         *int                 `json:"nearest_stone_id,omitempty" yaml:"nearest_stone_id,omitempty"`
	NearestStoneGap        *float64             `json:"nearest_stone_gap,omitempty" yaml:"nearest_stone_gap,omitempty"`
}

// Measure runs every measurement for a stone at (x, y) among stones.
func Measure(sheet model.Sheet, x, y float64, stones []model.Stone) MeasureResponse {
	resp := MeasureResponse{
		Classification: measure.Classify(sheet, x, y),
		ClosestRing:    measure.ClosestRing(sheet, x, y),
		CenterLine:     measure.CenterLineOffset(sheet, x),
		TLine:          measure.TLineOffset(sheet, y),
		GuardDistance:  measure.GuardDistance(sheet, y),
	}
	if i, gap, ok := measure.NearestStone(sheet, model.Point2D{X: x, Y: y}, stones); ok {
		id := stones[i].ID
		resp.NearestStoneID = &id
		resp.NearestStoneGap = &gap
	}
	return resp
}

// SheetResponse describes the sheet the server resolves against.
type SheetResponse struct {
	Sheet         model.Sheet       `json:"sheet"`
	Boundaries    engine.Boundaries `json:"boundaries"`
	MaxIterations int               `json:"max_iterations"`
}

func (s *Server) handleResolvePlacement(c *gin.Context) {
	var req ResolvePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateStones(req.Stones); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateZones(req.BannedZones); err != nil {
		badRequest(c, err)
		return
	}

	res := s.resolver.Resolve(req.StoneID, *req.X, *req.Y, req.Stones, req.BannedZones)
	s.metrics.ObserveResolution(res)

	c.JSON(http.StatusOK, res)
}

func (s *Server) handleResolveCollisions(c *gin.Context) {
	var req ResolveCollisionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	for _, team := range model.Teams {
		if err := validateStones(req.Stones.Stones(team)); err != nil {
			badRequest(c, fmt.Errorf("%s: %w", team, err))
			return
		}
		if err := validateZones(req.BannedZones.For(team)); err != nil {
			badRequest(c, fmt.Errorf("%s: %w", team, err))
			return
		}
	}

	settled := s.resolver.Settle(req.Stones, req.BannedZones)
	s.logger.Debug().
		Int("placed_before", req.Stones.PlacedCount()).
		Int("placed_after", settled.PlacedCount()).
		Msg("board settled")

	c.JSON(http.StatusOK, ResolveCollisionsResponse{ResolvedStones: settled})
}

func (s *Server) handleValidatePlacement(c *gin.Context) {
	var req PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, s.resolver.Boundaries().Validate(*req.X, *req.Y))
}

func (s *Server) handleClampBan(c *gin.Context) {
	var req ClampBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	zone := model.BanZone{X: *req.X, Y: *req.Y, Radius: req.Radius}
	c.JSON(http.StatusOK, engine.ClampBanZone(s.resolver.Sheet(), zone, s.defaultBanRadius))
}

func (s *Server) handleAdjustBan(c *gin.Context) {
	var req AdjustBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Zone != nil && !req.Zone.Valid() {
		badRequest(c, errors.New("zone must have finite coordinates and a positive radius"))
		return
	}
	adj := engine.AdjustForBan(s.resolver.Boundaries(), *req.X, *req.Y, s.resolver.Sheet().StoneRadius, req.Zone)
	c.JSON(http.StatusOK, adj)
}

func (s *Server) handleMeasure(c *gin.Context) {
	var req MeasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateStones(req.Stones); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, Measure(s.resolver.Sheet(), *req.X, *req.Y, req.Stones))
}

func (s *Server) handleSheet(c *gin.Context) {
	c.JSON(http.StatusOK, SheetResponse{
		Sheet:         s.resolver.Sheet(),
		Boundaries:    s.resolver.Boundaries(),
		MaxIterations: s.resolver.MaxIterations(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func validateStones(stones []model.Stone) error {
	for _, st := range stones {
		if !st.Valid() {
			return fmt.Errorf("stone %d has invalid coordinates", st.ID)
		}
	}
	return nil
}

func validateZones(zones []model.BanZone) error {
	for i, z := range zones {
		if !z.Valid() {
			return fmt.Errorf("banned zone %d must have finite coordinates and a positive radius", i)
		}
	}
	return nil
}
