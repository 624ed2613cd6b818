package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mosaicnetworks/provledger/src/concept"
	"github.com/mosaicnetworks/provledger/src/prov"
	"github.com/spf13/cobra"
)

// NewSaveCmd returns the command that saves a provenance document
func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "save <file>",
		Short:   "Save a PROV-JSON, PROV-XML or PROV-N document (- for stdin)",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfig,
		RunE:    save,
	}
	AddSaveFlags(cmd)
	return cmd
}

//AddSaveFlags adds flags to the save command
func AddSaveFlags(cmd *cobra.Command) {
	AddClientFlags(cmd)
	cmd.Flags().String("concept", _config.Concept, "Mapping of documents onto accounts: document, graph or role")
	cmd.Flags().String("failure-policy", _config.FailurePolicy, "On failed relation writes: continue or abort")
	cmd.Flags().String("document-account", _config.DocumentAccount, "Account owning documents saved with the document concept")
}

func save(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	report, saveErr := rt.client.SaveDocument(context.Background(), doc)
	if report != nil {
		if err := render(cmd.OutOrStdout(), report, func(w io.Writer) error {
			return printReport(w, report)
		}); err != nil {
			return err
		}
	}
	if saveErr != nil {
		return saveErr
	}
	if report.Partial() {
		return fmt.Errorf("%d relations could not be saved", len(report.Failures))
	}
	return nil
}

func readDocument(path string) (*prov.Document, error) {
	if path == "-" {
		return prov.ParseReader(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return prov.ParseReader(f)
}

func printReport(w io.Writer, r *concept.SaveReport) error {
	fmt.Fprintf(w, "save %s (%s)\n", r.SaveID, r.Concept)
	for _, i := range r.Instances {
		note := ""
		if i.Skipped {
			note = " (existing)"
		}
		fmt.Fprintf(w, "instance %s %s%s\n", i.NodeID, i.TransferID, note)
	}
	for _, rel := range r.Relations {
		fmt.Fprintf(w, "relation %s %s -> %s %s\n", relationName(rel.RelationID, rel.Kind), rel.Source, rel.Target, rel.TransferID)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "failed %s from %s: %s\n", relationName(f.RelationID, f.Kind), f.Source, f.Error)
	}
	fmt.Fprintf(w, "ids %s\n", strings.Join(r.RecordIDs(), " "))
	return nil
}

func relationName(id, kind string) string {
	if id == "" {
		return kind
	}
	return kind + "(" + id + ")"
}
