package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"buscacnpj/apperrors"
	"buscacnpj/report"
)

// xlsxContentType is the MIME type of an .xlsx workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// searchRequest is the JSON body of the API variant.
type searchRequest struct {
	Tipo   string `json:"tipo"`
	Cidade string `json:"cidade"`
}

// searchResponse is the JSON answer of the API variant.
type searchResponse struct {
	Filename string       `json:"filename"`
	Total    int          `json:"total"`
	Rows     []report.Row `json:"rows"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", formData("", "", "", ""))
}

// handleSearchDownload serves the HTML form submission: it runs the
// pipeline and streams the workbook back as an attachment. Failures
// re-render the form with an error banner.
func (s *Server) handleSearchDownload(c *gin.Context) {
	tipo := strings.TrimSpace(c.PostForm("tipo"))
	cidade := strings.TrimSpace(c.PostForm("cidade"))
	if tipo == "" || cidade == "" {
		c.HTML(http.StatusBadRequest, "index", formData(tipo, cidade, "Preencha tipo e cidade.", ""))
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), tipo, cidade)
	if err != nil {
		s.logger.Error("busca falhou", "erro", err, "tipo", tipo, "cidade", cidade)
		c.HTML(statusFor(err), "index", formData(tipo, cidade, userMessage(err), ""))
		return
	}

	if len(result.Rows) == 0 {
		c.HTML(http.StatusOK, "index", formData(tipo, cidade, "", "Nenhum resultado encontrado."))
		return
	}

	buf, err := report.Buffer(result.Rows)
	if err != nil {
		s.logger.Error("falha ao gerar planilha", "erro", err)
		c.HTML(http.StatusInternalServerError, "index", formData(tipo, cidade, "Falha ao gerar planilha.", ""))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, xlsxContentType, buf)
}

// handleSearchJSON serves the programmatic variant: rows as JSON.
func (s *Server) handleSearchJSON(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo JSON invalido"})
		return
	}

	req.Tipo = strings.TrimSpace(req.Tipo)
	req.Cidade = strings.TrimSpace(req.Cidade)
	if req.Tipo == "" || req.Cidade == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipo e cidade sao obrigatorios"})
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), req.Tipo, req.Cidade)
	if err != nil {
		s.logger.Error("busca falhou", "erro", err, "tipo", req.Tipo, "cidade", req.Cidade)
		c.JSON(statusFor(err), gin.H{"error": userMessage(err)})
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Filename: result.Filename,
		Total:    len(result.Rows),
		Rows:     result.Rows,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// formData fills every template slot so the form always renders cleanly.
func formData(tipo, cidade, errMsg, message string) gin.H {
	return gin.H{
		"Tipo":    tipo,
		"Cidade":  cidade,
		"Error":   errMsg,
		"Message": message,
	}
}

// statusFor maps an error to its HTTP status, defaulting to 500.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// userMessage extracts the user-facing message of an error.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.UserMessage()
	}
	return err.Error()
}
