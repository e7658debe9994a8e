package main

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/trkbt10/officekit/container/relationships"
	"github.com/trkbt10/officekit/container/zippkg"
	"github.com/trkbt10/officekit/docx"
	"github.com/trkbt10/officekit/drawingml"
	"github.com/trkbt10/officekit/pptx"
	"github.com/trkbt10/officekit/xlsx"
	"github.com/trkbt10/officekit/xmlnode"
)

func openPackage(args []string) (*zippkg.Package, string, *cliError) {
	data, path, cliErr := readFileArg(args)
	if cliErr != nil {
		return nil, path, cliErr
	}
	pkg, err := zippkg.Open(data)
	if err != nil {
		return nil, path, &cliError{Code: codeParseError, Message: err.Error()}
	}
	return pkg, path, nil
}

func parsePart(pkg *zippkg.Package, part string) (xmlnode.Node, *cliError) {
	data, ok := pkg.Read(part)
	if !ok {
		return xmlnode.Node{}, &cliError{Code: codeParseError, Message: fmt.Sprintf("package has no part %q", part)}
	}
	root, err := xmlnode.Parse(data)
	if err != nil {
		return xmlnode.Node{}, &cliError{Code: codeParseError, Message: err.Error()}
	}
	return root, nil
}

// slideParts lists the package's slide part paths in numeric order.
func slideParts(pkg *zippkg.Package) []string {
	var out []string
	for _, p := range pkg.List() {
		if strings.HasPrefix(p, "ppt/slides/slide") && strings.HasSuffix(p, ".xml") {
			out = append(out, p)
		}
	}
	num := func(p string) int {
		n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(p, "ppt/slides/slide"), ".xml"))
		return n
	}
	sort.SliceStable(out, func(i, j int) bool { return num(out[i]) < num(out[j]) })
	return out
}

func runPptx(command string, args []string) *cliError {
	switch command {
	case "info":
		pkg, path, err := openPackage(args)
		if err != nil {
			return err
		}
		emitJSON(map[string]interface{}{
			"file":   path,
			"slides": len(slideParts(pkg)),
			"parts":  len(pkg.List()),
		})
	case "list":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}
		emitJSON(map[string]interface{}{"parts": pkg.SortedList()})
	case "show":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}
		var slides []map[string]interface{}
		for _, part := range slideParts(pkg) {
			root, cliErr := parsePart(pkg, part)
			if cliErr != nil {
				return cliErr
			}
			slide := pptx.ParseSlide(root)
			entry := map[string]interface{}{
				"part":   part,
				"shapes": len(slide.Shapes),
			}
			if slide.Transition != nil {
				entry["transition"] = slide.Transition.Effect
			}
			slides = append(slides, entry)
		}
		emitJSON(map[string]interface{}{"slides": slides})
	case "extract":
		flags := flag.NewFlagSet("pptx extract", flag.ContinueOnError)
		asHTML := flags.Bool("html", false, "emit an HTML snapshot instead of plain text")
		if err := flags.Parse(args); err != nil {
			return &cliError{Code: codeInvalidArgument, Message: err.Error()}
		}
		pkg, _, err := openPackage(flags.Args())
		if err != nil {
			return err
		}
		var slides []pptx.SlideModel
		var texts []string
		for _, part := range slideParts(pkg) {
			root, cliErr := parsePart(pkg, part)
			if cliErr != nil {
				return cliErr
			}
			slide := pptx.ParseSlide(root)
			slides = append(slides, slide)
			for _, shape := range slide.Shapes {
				if shape.TextBody != nil {
					texts = append(texts, shape.TextBody.PlainText())
				}
			}
		}
		if *asHTML {
			out, renderErr := pptx.ExportHTML(slides)
			if renderErr != nil {
				return &cliError{Code: codeParseError, Message: renderErr.Error()}
			}
			emitJSON(map[string]interface{}{"html": string(out)})
			return nil
		}
		emitJSON(map[string]interface{}{"text": strings.Join(texts, "\n")})
	case "verify":
		return verifyOOXML(args, "ppt/presentation.xml")
	case "theme":
		return showTheme(args, "ppt/theme/theme1.xml")
	case "build":
		return buildEmptyPackage(args, "pptx")
	default:
		return invalidCommand("pptx", command)
	}
	return nil
}

func runDocx(command string, args []string) *cliError {
	switch command {
	case "info":
		pkg, path, err := openPackage(args)
		if err != nil {
			return err
		}
		root, cliErr := parsePart(pkg, "word/document.xml")
		if cliErr != nil {
			return cliErr
		}
		paragraphs := countParagraphs(root)
		emitJSON(map[string]interface{}{
			"file":       path,
			"paragraphs": paragraphs,
			"parts":      len(pkg.List()),
		})
	case "list":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}
		emitJSON(map[string]interface{}{"parts": pkg.SortedList()})
	case "show", "extract":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}
		root, cliErr := parsePart(pkg, "word/document.xml")
		if cliErr != nil {
			return cliErr
		}
		doc := docx.ParseDocument(root)
		var texts []string
		for _, block := range doc.Blocks {
			switch block.Kind {
			case docx.BlockParagraph:
				var sb strings.Builder
				for _, run := range docx.MergeFlowRuns(block.Paragraph.Runs) {
					sb.WriteString(run.Text)
				}
				texts = append(texts, sb.String())
			case docx.BlockTable:
				for _, row := range block.Table.Rows {
					var cells []string
					for _, cell := range row.Cells {
						cells = append(cells, cell.Text())
					}
					texts = append(texts, strings.Join(cells, "\t"))
				}
			}
		}
		emitJSON(map[string]interface{}{"text": strings.Join(texts, "\n")})
	case "verify":
		return verifyOOXML(args, "word/document.xml")
	case "theme":
		return showTheme(args, "word/theme/theme1.xml")
	case "build":
		return buildEmptyPackage(args, "docx")
	default:
		return invalidCommand("docx", command)
	}
	return nil
}

func runXlsx(command string, args []string) *cliError {
	switch command {
	case "info":
		pkg, path, err := openPackage(args)
		if err != nil {
			return err
		}
		sheets := 0
		for _, p := range pkg.List() {
			if strings.HasPrefix(p, "xl/worksheets/sheet") {
				sheets++
			}
		}
		emitJSON(map[string]interface{}{
			"file":   path,
			"sheets": sheets,
			"parts":  len(pkg.List()),
		})
	case "list":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}
		emitJSON(map[string]interface{}{"parts": pkg.SortedList()})
	case "show", "extract":
		pkg, _, err := openPackage(args)
		if err != nil {
			return err
		}

		var shared *xlsx.SharedStringTable
		if _, ok := pkg.Read("xl/sharedStrings.xml"); ok {
			root, cliErr := parsePart(pkg, "xl/sharedStrings.xml")
			if cliErr != nil {
				return cliErr
			}
			table := xlsx.ParseSharedStringTable(root)
			shared = &table
		}

		sheets := map[string][][]string{}
		for _, part := range pkg.List() {
			if !strings.HasPrefix(part, "xl/worksheets/sheet") || !strings.HasSuffix(part, ".xml") {
				continue
			}
			root, cliErr := parsePart(pkg, part)
			if cliErr != nil {
				return cliErr
			}
			ws := xlsx.ParseWorksheet(root)
			var rows [][]string
			for _, row := range ws.Rows {
				var cells []string
				for _, cell := range row.Cells {
					cells = append(cells, cell.Text(shared))
				}
				rows = append(rows, cells)
			}
			sheets[part] = rows
		}
		emitJSON(map[string]interface{}{"sheets": sheets})
	case "verify":
		return verifyOOXML(args, "xl/workbook.xml")
	case "theme":
		return showTheme(args, "xl/theme/theme1.xml")
	case "build":
		return buildEmptyPackage(args, "xlsx")
	default:
		return invalidCommand("xlsx", command)
	}
	return nil
}

func countParagraphs(root xmlnode.Node) int {
	count := 0
	walkParagraphs(root, func(xmlnode.Node) { count++ })
	return count
}

func walkParagraphs(n xmlnode.Node, fn func(xmlnode.Node)) {
	for _, c := range n.Children {
		if c.Kind != xmlnode.KindElement {
			continue
		}
		if c.Name == "p" && c.Space == "w" {
			fn(c)
			continue
		}
		walkParagraphs(c, fn)
	}
}

// verifyOOXML checks package structure: content types, the main part, and
// that every relationship in every .rels part resolves.
func verifyOOXML(args []string, mainPart string) *cliError {
	pkg, _, err := openPackage(args)
	if err != nil {
		return err
	}

	var problems []string
	if _, ok := pkg.Read("[Content_Types].xml"); !ok {
		problems = append(problems, "[Content_Types].xml missing")
	}
	if _, ok := pkg.Read(mainPart); !ok {
		problems = append(problems, fmt.Sprintf("main part %q missing", mainPart))
	}

	graph := relationships.NewGraph()
	for _, part := range pkg.List() {
		if !strings.HasSuffix(part, ".rels") {
			continue
		}
		data, _ := pkg.Read(part)
		source := sourceForRels(part)
		if loadErr := graph.LoadPart(source, data); loadErr != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", part, loadErr))
			continue
		}
		for _, rel := range graph.Relationships(source) {
			if rel.Mode == relationships.ModeExternal {
				continue
			}
			target := relationships.ResolvePartPath(source, rel.Target)
			if _, ok := pkg.Read(target); !ok {
				problems = append(problems, fmt.Sprintf("%s: %s -> %s missing", part, rel.ID, target))
			}
		}
	}

	if len(problems) > 0 {
		return &cliError{Code: codeParseError, Message: strings.Join(problems, "; ")}
	}
	emitJSON(map[string]interface{}{"valid": true})
	return nil
}

// sourceForRels maps a .rels path back to its source part.
func sourceForRels(relsPath string) string {
	dir := ""
	leaf := relsPath
	if i := strings.LastIndex(relsPath, "_rels/"); i >= 0 {
		dir = relsPath[:i]
		leaf = relsPath[i+len("_rels/"):]
	}
	leaf = strings.TrimSuffix(leaf, ".rels")
	return dir + leaf
}

// showTheme prints the theme's color scheme and font scheme.
func showTheme(args []string, themePart string) *cliError {
	pkg, _, err := openPackage(args)
	if err != nil {
		return err
	}
	root, cliErr := parsePart(pkg, themePart)
	if cliErr != nil {
		return cliErr
	}

	colors := map[string]string{}
	fonts := map[string]string{}
	if themeElements, ok := xmlnode.GetChild(root, "themeElements"); ok {
		if clrScheme, ok := xmlnode.GetChild(themeElements, "clrScheme"); ok {
			for _, slot := range clrScheme.Children {
				if slot.Kind != xmlnode.KindElement {
					continue
				}
				c := drawingml.ParseColorChoice(slot)
				switch c.Kind {
				case drawingml.ColorSrgb, drawingml.ColorSystem:
					colors[slot.Name] = c.Hex
				default:
					colors[slot.Name] = c.Name
				}
			}
		}
		if fontScheme, ok := xmlnode.GetChild(themeElements, "fontScheme"); ok {
			for _, group := range []string{"majorFont", "minorFont"} {
				if fontGroup, ok := xmlnode.GetChild(fontScheme, group); ok {
					if latin, ok := xmlnode.GetChild(fontGroup, "latin"); ok {
						if face, ok := xmlnode.GetAttr(latin, "typeface"); ok {
							fonts[group] = face
						}
					}
				}
			}
		}
	}

	emitJSON(map[string]interface{}{"colors": colors, "fonts": fonts})
	return nil
}

// buildEmptyPackage writes a minimal valid package skeleton.
func buildEmptyPackage(args []string, format string) *cliError {
	if len(args) < 1 {
		return &cliError{Code: codeInvalidArgument, Message: "missing output path"}
	}
	out := args[len(args)-1]

	pkg := zippkg.New()
	switch format {
	case "pptx":
		pkg.Write("[Content_Types].xml", []byte(pptxContentTypes))
		pkg.Write("_rels/.rels", []byte(rootRels("ppt/presentation.xml", "officeDocument")))
		pkg.Write("ppt/presentation.xml", []byte(emptyPresentation))
	case "docx":
		pkg.Write("[Content_Types].xml", []byte(docxContentTypes))
		pkg.Write("_rels/.rels", []byte(rootRels("word/document.xml", "officeDocument")))
		pkg.Write("word/document.xml", []byte(emptyDocument))
	case "xlsx":
		pkg.Write("[Content_Types].xml", []byte(xlsxContentTypes))
		pkg.Write("_rels/.rels", []byte(rootRels("xl/workbook.xml", "officeDocument")))
		pkg.Write("xl/workbook.xml", []byte(emptyWorkbook))
	}

	data, err := pkg.ToBytes()
	if err != nil {
		return &cliError{Code: codeParseError, Message: err.Error()}
	}
	if err := writeFile(out, data); err != nil {
		return &cliError{Code: codeInvalidArgument, Message: err.Error()}
	}
	emitJSON(map[string]interface{}{"written": out, "parts": pkg.SortedList()})
	return nil
}

func rootRels(target, relType string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/` + relType + `" Target="/` + target + `"/>
</Relationships>`
}

const pptxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
</Types>`

const emptyPresentation = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:sldIdLst/>
  <p:sldSz cx="9144000" cy="6858000"/>
</p:presentation>`

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const emptyDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body/>
</w:document>`

const xlsxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
</Types>`

const emptyWorkbook = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheets/>
</workbook>`
