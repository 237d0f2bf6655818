// Package restapi exposes a read-only admin HTTP surface over a job's
// redundancy descriptor table: list the descriptors a job negotiated
// and look up which one a given checkpoint id selects. It is ambient
// tooling an operator attaches to a running job, not part of the
// collective core itself -- every handler only reads from the
// RedDescTable built at job start.
package restapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"

	"github.com/sharedcode/scrred/reddesc"
)

// Server serves the admin API over a fixed RedDescTable snapshot.
type Server struct {
	table  *reddesc.RedDescTable
	engine *gin.Engine
}

// descriptorView is the JSON-facing projection of a RedDesc: runtime
// indices are included since this surface is for operators inspecting
// job state, unlike RedDesc.Serialize's job-config-facing subset.
type descriptorView struct {
	Index        int    `json:"index"`
	Enabled      bool   `json:"enabled"`
	Interval     int    `json:"interval"`
	Output       bool   `json:"output"`
	Store        string `json:"store"`
	StoreIndex   int    `json:"store_index"`
	Directory    string `json:"directory"`
	Type         string `json:"type"`
	FailureGroup string `json:"failure_group"`
}

func toView(d reddesc.RedDesc) descriptorView {
	return descriptorView{
		Index:        d.Index,
		Enabled:      d.Enabled,
		Interval:     d.Interval,
		Output:       d.Output,
		Store:        d.StoreName,
		StoreIndex:   d.StoreIndex,
		Directory:    d.Directory,
		Type:         d.CopyType.String(),
		FailureGroup: d.FailureGroup,
	}
}

// NewServer wires a gin engine with the /reddesc routes, guarded by
// verifyBearerToken. gin.Default is used as-is (logger + recovery
// middleware) to match the teacher's main.go.
func NewServer(table *reddesc.RedDescTable) *Server {
	engine := gin.Default()
	s := &Server{table: table, engine: engine}

	v1 := engine.Group("/api/v1")
	v1.Use(verifyBearerToken)
	{
		v1.GET("/reddesc", s.listDescriptors)
		v1.GET("/reddesc/select/:id", s.selectDescriptor)
	}
	return s
}

// Handler returns the underlying gin engine, e.g. for httptest.Server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run starts the HTTP server on addr, blocking until it exits.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

// listDescriptors godoc
// @Summary      List redundancy descriptors
// @Description  Returns every descriptor this job negotiated at start.
// @Produce      json
// @Security     Bearer
// @Success      200  {array}  descriptorView
// @Router       /reddesc [get]
func (s *Server) listDescriptors(c *gin.Context) {
	descs := s.table.Descriptors()
	views := make([]descriptorView, len(descs))
	for i, d := range descs {
		views[i] = toView(d)
	}
	c.JSON(http.StatusOK, views)
}

// selectDescriptor godoc
// @Summary      Select the descriptor for a checkpoint id
// @Produce      json
// @Security     Bearer
// @Param        id   path      int  true  "checkpoint id"
// @Success      200  {object}  descriptorView
// @Failure      404  {string}  string  "no descriptor selects this id"
// @Router       /reddesc/select/{id} [get]
func (s *Server) selectDescriptor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid checkpoint id")
		return
	}
	d, ok := s.table.Select(id)
	if !ok {
		c.String(http.StatusNotFound, "no descriptor selects checkpoint %d", id)
		return
	}
	c.JSON(http.StatusOK, toView(d))
}

var toValidate = map[string]string{
	"aud": "api://default",
	"cid": os.Getenv("OKTA_CLIENT_ID"),
}

// verifyBearerToken checks the Authorization header against Okta,
// bypassed entirely when SCRRED_ENV=DEV for local operator use.
func verifyBearerToken(c *gin.Context) {
	if os.Getenv("SCRRED_ENV") == "DEV" {
		c.Next()
		return
	}

	token := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(token, "Bearer ") {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	token = strings.TrimPrefix(token, "Bearer ")

	verifier := jwtverifier.JwtVerifier{
		Issuer:           "https://" + os.Getenv("OKTA_DOMAIN") + "/oauth2/default",
		ClaimsToValidate: toValidate,
	}
	if _, err := verifier.New().VerifyAccessToken(token); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	c.Next()
}
