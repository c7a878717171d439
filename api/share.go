package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mikanbox/droplink/api/notifyhub"
	"github.com/mikanbox/droplink/manifest"
	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const shareAccentColor = "#2563eb"

type indexFile struct {
	ID          string
	DisplayName string
	Description string
}

type indexData struct {
	AccentColor string
	FileCount   int
	TotalSize   string
	Files       []indexFile
}

// NewShareHandler builds the two-route handler serving one manifest: the
// index page and per-id downloads. The manifest is immutable, so handlers
// read it concurrently without locking.
func NewShareHandler(m *manifest.Manifest, hub *notifyhub.Hub) http.Handler {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", serveIndex(m))
	engine.GET("/files/:id", serveDownload(m, hub))
	return engine
}

func serveIndex(m *manifest.Manifest) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := indexData{
			AccentColor: shareAccentColor,
			FileCount:   m.Len(),
			TotalSize:   tool.HumanSize(m.TotalSize()),
			Files:       make([]indexFile, 0, m.Len()),
		}
		for _, entry := range m.Entries() {
			description := tool.HumanSize(entry.Size)
			if entry.Extension != "" {
				description = fmt.Sprintf("%s · %s", strings.ToUpper(entry.Extension), description)
			}
			data.Files = append(data.Files, indexFile{
				ID:          entry.ID,
				DisplayName: entry.DisplayName,
				Description: description,
			})
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := indexTemplate.Execute(c.Writer, data); err != nil {
			tool.DefaultLogger.Errorf("Failed to render share index: %v", err)
		}
	}
}

func serveDownload(m *manifest.Manifest, hub *notifyhub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		entry, ok := m.Lookup(id)
		if !ok {
			c.String(http.StatusNotFound, "The file you are looking for does not exist.")
			return
		}

		// The source may have vanished since the manifest was built; that
		// only affects this one response.
		file, err := os.Open(entry.SourcePath)
		if err != nil {
			tool.DefaultLogger.Warnf("Shared file no longer readable: %s: %v", entry.SourcePath, err)
			c.String(http.StatusNotFound, "This file is no longer available; reshare it from the desktop app.")
			return
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			c.String(http.StatusNotFound, "This file is no longer available; reshare it from the desktop app.")
			return
		}

		disposition := fmt.Sprintf("attachment; filename=%q", tool.SanitizeFilename(entry.DownloadName))
		c.DataFromReader(http.StatusOK, info.Size(), entry.MimeType, file, map[string]string{
			"Content-Disposition": disposition,
		})

		hub.Publish(types.NotifyTypeFileDownloaded, "File Downloaded",
			fmt.Sprintf("%s was downloaded by %s", entry.DownloadName, c.ClientIP()),
			map[string]any{
				"id":       entry.ID,
				"name":     entry.DownloadName,
				"size":     entry.Size,
				"clientIp": c.ClientIP(),
			})
	}
}
