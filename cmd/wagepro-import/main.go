package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/GSaiKiran15/Case-Wage-Pro/internal/dataset"
	"github.com/GSaiKiran15/Case-Wage-Pro/internal/logger"
)

func main() {
	var (
		help        = flag.Bool("help", false, "Show help message")
		wagesPath   = flag.String("wages", "ALC_Export.csv", "OFLC wage export (Area, SocCode, Level1..Level4)")
		geoPath     = flag.String("geography", "Geography.csv", "OFLC geography export (Area, AreaName, State, CountyTownName)")
		occsPath    = flag.String("occupations", "oes_soc_occs.csv", "Occupation titles (soccode, Title, Description)")
		wageOut     = flag.String("wage-out", "data/wage_data.json", "Where to write the wage table")
		geographyTo = flag.String("geography-out", "data/county_to_area_code.json", "Where to write the county index")
	)
	flag.Parse()

	if *help {
		fmt.Printf("wagepro-import - build the wage datasets from OFLC CSV exports\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		return
	}

	if err := run(*wagesPath, *geoPath, *occsPath, *wageOut, *geographyTo); err != nil {
		logger.Fatal("Import failed", "error", err)
	}
}

func run(wagesPath, geoPath, occsPath, wageOut, geographyOut string) error {
	var files []*os.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	open := func(path string) (*os.File, error) {
		f, err := os.Open(path) // #nosec G304 -- paths come from the operator's command line
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		files = append(files, f)
		return f, nil
	}

	wages, err := open(wagesPath)
	if err != nil {
		return err
	}
	geo, err := open(geoPath)
	if err != nil {
		return err
	}
	occs, err := open(occsPath)
	if err != nil {
		return err
	}

	table, index, err := dataset.Import(context.Background(), dataset.ImportSources{
		Wages:       wages,
		Geography:   geo,
		Occupations: occs,
	})
	if err != nil {
		return err
	}

	if err := dataset.SaveJSON(wageOut, table); err != nil {
		return err
	}
	if err := dataset.SaveJSON(geographyOut, index); err != nil {
		return err
	}

	logger.Info("Datasets written",
		"occupations", table.Len(),
		"counties", index.Len(),
		"wage_data", wageOut,
		"geography", geographyOut)
	return nil
}
