package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewGetCmd returns the command that rebuilds a document from record ids
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get <id>...",
		Short:   "Assemble records into a PROV-JSON document",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: loadConfig,
		RunE:    get,
	}
	AddClientFlags(cmd)
	return cmd
}

func get(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	doc, err := rt.client.GetDocument(context.Background(), args)
	if err != nil {
		return err
	}

	data, err := doc.JSON()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	out.Write(data)
	out.Write([]byte("\n"))
	return nil
}
