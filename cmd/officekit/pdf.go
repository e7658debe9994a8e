package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/trkbt10/officekit/graphicsstate"
	"github.com/trkbt10/officekit/reader"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func openPdf(args []string, cfg reader.Config) (*reader.Reader, string, *cliError) {
	if len(args) < 1 {
		return nil, "", &cliError{Code: codeInvalidArgument, Message: "missing file argument"}
	}
	path := args[len(args)-1]
	r, err := reader.Open(path, reader.WithConfig(cfg))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, &cliError{Code: codeFileNotFound, Message: err.Error()}
		}
		return nil, path, &cliError{Code: codeParseError, Message: err.Error()}
	}
	return r, path, nil
}

func runPdf(command string, args []string) *cliError {
	flags := flag.NewFlagSet("pdf", flag.ContinueOnError)
	shadingMaxSize := flags.Int("shading-max-size", 256, "0 disables shading rasterization in soft masks; any positive value enables it")
	softMaskVectorMaxSize := flags.Int("softmask-vector-max-size", 0, "enable text/path soft-mask rasterization up to this extent")
	strict := flags.Bool("strict", false, "fail fast instead of recovering per operator")
	if err := flags.Parse(args); err != nil {
		return &cliError{Code: codeInvalidArgument, Message: err.Error()}
	}
	args = flags.Args()
	cfg := reader.Config{
		ShadingMaxSize:        *shadingMaxSize,
		SoftMaskVectorMaxSize: *softMaskVectorMaxSize,
		Strict:                *strict,
	}

	switch command {
	case "info":
		r, path, cliErr := openPdf(args, cfg)
		if cliErr != nil {
			return cliErr
		}
		defer r.Close()
		pageCount, err := r.PageCount()
		if err != nil {
			return &cliError{Code: codeParseError, Message: err.Error()}
		}
		emitJSON(map[string]interface{}{
			"file":    path,
			"version": r.Version().String(),
			"pages":   pageCount,
			"objects": r.NumObjects(),
		})
	case "list":
		r, _, cliErr := openPdf(args, cfg)
		if cliErr != nil {
			return cliErr
		}
		defer r.Close()
		pageCount, err := r.PageCount()
		if err != nil {
			return &cliError{Code: codeParseError, Message: err.Error()}
		}
		var pagesOut []map[string]interface{}
		for i := 0; i < pageCount; i++ {
			page, err := r.GetPage(i)
			if err != nil {
				return &cliError{Code: codeParseError, Message: err.Error()}
			}
			box, _ := page.MediaBox()
			pagesOut = append(pagesOut, map[string]interface{}{
				"index":    i,
				"mediaBox": box,
			})
		}
		emitJSON(map[string]interface{}{"pages": pagesOut})
	case "show":
		return pdfShow(args, cfg)
	case "extract":
		r, _, cliErr := openPdf(args, cfg)
		if cliErr != nil {
			return cliErr
		}
		defer r.Close()
		pageCount, err := r.PageCount()
		if err != nil {
			return &cliError{Code: codeParseError, Message: err.Error()}
		}
		var texts []string
		for i := 0; i < pageCount; i++ {
			page, err := r.GetPage(i)
			if err != nil {
				return &cliError{Code: codeParseError, Message: err.Error()}
			}
			text, err := r.PageText(page)
			if err != nil {
				return &cliError{Code: codeParseError, Message: err.Error()}
			}
			texts = append(texts, text)
		}
		emitJSON(map[string]interface{}{"pages": texts})
	case "verify":
		r, _, cliErr := openPdf(args, cfg)
		if cliErr != nil {
			return cliErr
		}
		defer r.Close()
		if _, err := r.GetCatalog(); err != nil {
			return &cliError{Code: codeParseError, Message: fmt.Sprintf("catalog: %v", err)}
		}
		if _, err := r.PageCount(); err != nil {
			return &cliError{Code: codeParseError, Message: fmt.Sprintf("page tree: %v", err)}
		}
		emitJSON(map[string]interface{}{"valid": true})
	case "theme", "build":
		return &cliError{Code: codeInvalidArgument, Message: fmt.Sprintf("pdf has no %s command", command)}
	default:
		return invalidCommand("pdf", command)
	}
	return nil
}

// pdfShow interprets each page's content stream and reports the parsed
// elements.
func pdfShow(args []string, cfg reader.Config) *cliError {
	r, _, cliErr := openPdf(args, cfg)
	if cliErr != nil {
		return cliErr
	}
	defer r.Close()

	pageCount, err := r.PageCount()
	if err != nil {
		return &cliError{Code: codeParseError, Message: err.Error()}
	}

	var pagesOut []map[string]interface{}
	for i := 0; i < pageCount; i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return &cliError{Code: codeParseError, Message: err.Error()}
		}

		elements, warnings, err := r.PageElements(page)
		if err != nil {
			return &cliError{Code: codeParseError, Message: err.Error()}
		}

		counts := map[string]int{}
		for _, elem := range elements {
			switch elem.Kind() {
			case graphicsstate.ElementPath:
				counts["paths"]++
			case graphicsstate.ElementText:
				counts["texts"]++
			case graphicsstate.ElementImage, graphicsstate.ElementRasterImage:
				counts["images"]++
			case graphicsstate.ElementShading:
				counts["shadings"]++
			}
		}
		pagesOut = append(pagesOut, map[string]interface{}{
			"index":    i,
			"elements": counts,
			"warnings": warnings,
		})
	}

	emitJSON(map[string]interface{}{"pages": pagesOut})
	return nil
}
