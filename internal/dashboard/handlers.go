package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"globalsouth/internal/charts"
	"globalsouth/internal/dataset"
	"globalsouth/internal/export"
	"globalsouth/internal/report"
)

type indexPage struct {
	Error    string
	DataPath string
	Controls Controls
	Query    template.URL
	Regions  []regionOption
	Years    []int
	Speeds   []int
	Insights report.Insights
	PieYear  bool
	Table    *dataset.Table
}

type regionOption struct {
	Name     string
	Color    string
	Selected bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.renderPage(w, http.StatusInternalServerError, indexPage{Error: dataset.Describe(err), DataPath: s.cfg.DataPath})
		return
	}

	c := parseControls(r, s.cfg.Animation, snap.Data)
	page := indexPage{
		DataPath: s.cfg.DataPath,
		Controls: c,
		Query:    template.URL(c.Query()),
		Years:    dataset.Years(snap.Data),
		Insights: report.Build(snap, c.Regions),
		PieYear:  len(dataset.YearSlice(snap.Data, c.Year)) > 0,
		Table:    snap.Table,
	}
	for _, region := range dataset.Regions {
		page.Regions = append(page.Regions, regionOption{
			Name:     string(region),
			Color:    snap.Data.Color(region),
			Selected: c.Selected(region),
		})
	}
	a := s.cfg.Animation
	for ms := a.MinMS; ms <= a.MaxMS; ms += a.StepMS {
		page.Speeds = append(page.Speeds, ms)
	}

	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page indexPage) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.logger.Error("template failed", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSharePNG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)

	s.writeBuffered(w, "image/png", func(buf *bytes.Buffer) error {
		p, err := charts.ShareLine(snap.Data, c.Year)
		if err != nil {
			return err
		}
		return charts.WritePNG(buf, p, charts.LineSize)
	})
}

func (s *Server) handleShareGIF(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)

	s.writeBuffered(w, "image/gif", func(buf *bytes.Buffer) error {
		return charts.ShareAnimation(buf, snap.Data, time.Duration(c.SpeedMS)*time.Millisecond, charts.LineSize)
	})
}

func (s *Server) handleRegionsGIF(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)
	if len(c.Regions) == 0 {
		http.Error(w, "no region selected", http.StatusBadRequest)
		return
	}

	s.writeBuffered(w, "image/gif", func(buf *bytes.Buffer) error {
		return charts.RegionAnimation(buf, snap.Data, c.Regions, time.Duration(c.SpeedMS)*time.Millisecond, charts.BarSize)
	})
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)

	p, err := charts.RegionPie(snap.Data, c.Regions, c.Year)
	if errors.Is(err, dataset.ErrNoDataForYear) {
		http.Error(w, fmt.Sprintf("no data found for %d", c.Year), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.writeBuffered(w, "image/png", func(buf *bytes.Buffer) error {
		return charts.WritePNG(buf, p, charts.PieSize)
	})
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", attachment(export.CSVFileName))
	s.writeBuffered(w, "text/csv; charset=utf-8", func(buf *bytes.Buffer) error {
		return export.WriteCSV(buf, snap.Table)
	})
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)

	w.Header().Set("Content-Disposition", attachment(export.XLSXFileName))
	s.writeBuffered(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(buf *bytes.Buffer) error {
		return export.WriteXLSX(buf, snap, export.Options{Regions: c.Regions})
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		http.Error(w, dataset.Describe(err), http.StatusInternalServerError)
		return
	}
	c := parseControls(r, s.cfg.Animation, snap.Data)

	s.writeBuffered(w, "text/markdown; charset=utf-8", func(buf *bytes.Buffer) error {
		return report.WriteMarkdown(buf, report.Build(snap, c.Regions))
	})
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
