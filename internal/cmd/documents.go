package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/api"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs", "evidence"},
	Short:   "Upload and review case evidence",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Attach a file to a case",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsUpload,
}

var documentsVerifyCmd = &cobra.Command{
	Use:   "verify <document>",
	Short: "Mark a document as verified (court only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsVerify,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <document>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var (
	documentsCase   string
	documentsStatus string
	documentsTitle  string
)

func init() {
	documentsListCmd.Flags().StringVar(&documentsCase, "case", "", "only documents of this case")
	documentsListCmd.Flags().StringVar(&documentsStatus, "status", "", "pending or verified")
	documentsUploadCmd.Flags().StringVar(&documentsCase, "case", "", "case the document belongs to")
	documentsUploadCmd.Flags().StringVar(&documentsTitle, "title", "", "title, defaults to the file name")
	_ = documentsUploadCmd.MarkFlagRequired("case")

	documentsCmd.AddCommand(documentsListCmd, documentsUploadCmd, documentsVerifyCmd, documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := optionalCase(ctx, a, documentsCase)
		if err != nil {
			return err
		}
		docs, err := a.client.ListDocuments(ctx, api.DocumentFilter{CaseID: caseID, Status: documentsStatus})
		if err != nil {
			return err
		}
		return render(cmd, documentList(docs))
	})
}

func runDocumentsUpload(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("invalid argument %q: %w", args[0], err)
	}
	defer f.Close()

	return withSession(cmd, func(ctx context.Context, a *app) error {
		caseID, err := resolveCase(ctx, a, documentsCase)
		if err != nil {
			return err
		}
		doc, err := a.client.UploadDocument(ctx, api.Upload{
			CaseID:   caseID,
			Title:    documentsTitle,
			Filename: filepath.Base(args[0]),
			Content:  f,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s: %s\n", doc.ID, doc.Title)
		return nil
	})
}

func runDocumentsVerify(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.DocumentPrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		doc, err := a.client.VerifyDocument(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Verified %s\n", doc.ID)
		return nil
	})
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRef(api.DocumentPrefix, args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.client.DeleteDocument(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", args[0])
		return nil
	})
}

type documentList []api.Document

func (docs documentList) RenderText(w io.Writer) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No documents")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCASE\tTITLE\tTYPE\tSIZE\tSTATUS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", d.ID, d.CaseID, d.Title, d.FileType, d.Size, d.Status)
	}
	return tw.Flush()
}
