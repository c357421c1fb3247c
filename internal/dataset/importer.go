package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

// ImportSources are the OFLC wage survey exports the datasets are built from.
type ImportSources struct {
	Wages       io.Reader // ALC_Export.csv: Area, SocCode, GeoLvl, Level1..Level4, Average
	Geography   io.Reader // Geography.csv: Area, AreaName, StateAb, State, CountyTownName
	Occupations io.Reader // oes_soc_occs.csv: soccode, Title, Description
}

type csvRows struct {
	header map[string]int
	rows   [][]string
}

func (c *csvRows) get(row []string, column string) string {
	i, ok := c.header[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readCSV(name string, r io.Reader, required ...string) (*csvRows, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	out := &csvRows{header: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out.header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, column := range required {
		if _, ok := out.header[column]; !ok {
			return nil, fmt.Errorf("%s is missing required column '%s'", name, column)
		}
	}

	out.rows, err = reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s rows: %w", name, err)
	}
	return out, nil
}

type areaInfo struct {
	name  string
	state string
}

// Import joins the wage, geography and occupation exports into a wage
// table and a geography index. Wage records keep the row order of the
// wage export.
func Import(ctx context.Context, src ImportSources) (*WageTable, *GeographyIndex, error) {
	var wages, geo, occs *csvRows

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		wages, err = readCSV("wage export", src.Wages, "area", "soccode", "level1", "level2", "level3", "level4")
		return err
	})
	g.Go(func() (err error) {
		geo, err = readCSV("geography export", src.Geography, "area", "areaname", "state", "countytownname")
		return err
	})
	g.Go(func() (err error) {
		occs, err = readCSV("occupation export", src.Occupations, "soccode", "title")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	areas := make(map[string]areaInfo)
	entries := make([]model.GeographyEntry, 0, len(geo.rows))
	seenKeys := make(map[string]string)
	for _, row := range geo.rows {
		area := geo.get(row, "area")
		county := geo.get(row, "countytownname")
		state := geo.get(row, "state")
		if area == "" {
			continue
		}
		if _, ok := areas[area]; !ok {
			areas[area] = areaInfo{name: geo.get(row, "areaname"), state: state}
		}
		if county == "" || state == "" {
			continue
		}
		key := model.GeographyKey(county, state)
		if prev, ok := seenKeys[key]; ok {
			if prev != area {
				logger.Warn("conflicting geography rows, keeping first", "key", key, "kept", prev, "ignored", area)
			}
			continue
		}
		seenKeys[key] = area
		entries = append(entries, model.GeographyEntry{Key: key, AreaCode: area})
	}

	titles := make(map[string]model.Occupation)
	for _, row := range occs.rows {
		code := occs.get(row, "soccode")
		if code == "" {
			continue
		}
		titles[code] = model.Occupation{Title: occs.get(row, "title"), Description: occs.get(row, "description")}
	}

	byCode := make(map[string]*model.Occupation)
	var order []string
	unmatchedAreas := 0
	for _, row := range wages.rows {
		code := wages.get(row, "soccode")
		area := wages.get(row, "area")
		if code == "" || area == "" {
			continue
		}
		occ, ok := byCode[code]
		if !ok {
			info := titles[code]
			occ = &model.Occupation{Code: code, Title: info.Title, Description: info.Description}
			byCode[code] = occ
			order = append(order, code)
		}
		info, ok := areas[area]
		if !ok {
			unmatchedAreas++
		}
		occ.Areas = append(occ.Areas, model.AreaWageRecord{
			AreaCode: area,
			AreaName: info.name,
			State:    info.state,
			Level1:   model.ParseWage(wages.get(row, "level1")),
			Level2:   model.ParseWage(wages.get(row, "level2")),
			Level3:   model.ParseWage(wages.get(row, "level3")),
			Level4:   model.ParseWage(wages.get(row, "level4")),
			Average:  model.ParseWage(wages.get(row, "average")),
		})
	}
	if unmatchedAreas > 0 {
		logger.Warn("wage rows reference areas missing from the geography export", "rows", unmatchedAreas)
	}

	occupations := make([]model.Occupation, 0, len(order))
	for _, code := range order {
		occupations = append(occupations, *byCode[code])
	}

	table, err := NewWageTable(occupations)
	if err != nil {
		return nil, nil, err
	}
	index, err := NewGeographyIndex(entries)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("datasets imported", "occupations", table.Len(), "geography_entries", index.Len())
	return table, index, nil
}
