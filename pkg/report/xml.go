package report

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/marve/cerbero/pkg/types"
)

func writeXML(w io.Writer, r *Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("output", r.OutputRoot)
	root.CreateAttr("dry-run", strconv.FormatBool(r.DryRun))
	root.CreateAttr("duration", r.Duration.String())

	inputs := root.CreateElement("inputs")
	for _, in := range r.InputRoots {
		inputs.CreateElement("root").SetText(in)
	}

	summary := root.CreateElement("summary")
	counts := r.Counts()
	for _, a := range types.Actions {
		el := summary.CreateElement("action")
		el.CreateAttr("name", a.String())
		el.CreateAttr("count", strconv.Itoa(counts[a]))
	}

	files := root.CreateElement("files")
	for _, f := range r.Files {
		el := files.CreateElement("file")
		el.CreateAttr("path", f.RelPath)
		el.CreateAttr("action", f.Action.String())
		el.CreateAttr("outcome", string(f.Outcome))
		for _, in := range f.Inputs {
			el.CreateElement("input").SetText(in)
		}
	}

	missing := root.CreateElement("missing")
	for _, m := range r.Missing {
		el := missing.CreateElement("file")
		el.CreateAttr("path", m.RelPath)
		el.CreateAttr("root", m.Root)
	}

	failures := root.CreateElement("tool-failures")
	for _, tf := range r.ToolFailures {
		el := failures.CreateElement("failure")
		el.CreateAttr("path", tf.RelPath)
		el.SetText(tf.Error)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
