package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/notes-api/cmd/cli/config"
	"github.com/crucial707/notes-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// InitNotes registers the notes command group on the root command.
func InitNotes(rootCmd *cobra.Command) {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	notesCmd.AddCommand(
		listNotesCmd(),
		getNoteCmd(),
		createNoteCmd(),
		updateNoteCmd(),
		deleteNoteCmd(),
	)

	rootCmd.AddCommand(notesCmd)
}

// ==========================
// LIST
// ==========================
func listNotesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		Run: func(cmd *cobra.Command, args []string) {
			var notes []note
			if err := doRequest("GET", "/api/notes", nil, &notes); err != nil {
				fmt.Println(err)
				return
			}

			if asJSON {
				b, _ := json.MarshalIndent(notes, "", "  ")
				fmt.Println(string(b))
				return
			}

			rows := make([][]interface{}, 0, len(notes))
			for _, n := range notes {
				rows = append(rows, []interface{}{n.ID, n.Title, n.CreatedAt.Format(time.RFC3339)})
			}
			output.RenderTable([]string{"ID", "Title", "Created"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON instead of a table")

	return cmd
}

// ==========================
// GET
// ==========================
func getNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var n note
			if err := doRequest("GET", "/api/notes/"+args[0], nil, &n); err != nil {
				fmt.Println(err)
				return
			}
			b, _ := json.MarshalIndent(n, "", "  ")
			fmt.Println(string(b))
		},
	}
}

// ==========================
// CREATE
// ==========================
func createNoteCmd() *cobra.Command {
	var title string
	var content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]string{"title": title, "content": content}

			var out struct {
				ID string `json:"id"`
			}
			if err := doRequest("POST", "/api/notes", payload, &out); err != nil {
				fmt.Println(err)
				return
			}
			fmt.Println("Created note", out.ID)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&content, "content", "", "Note content")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateNoteCmd() *cobra.Command {
	var title string
	var content string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]string{"title": title, "content": content}

			if err := doRequest("PUT", "/api/notes/"+args[0], payload, nil); err != nil {
				fmt.Println(err)
				return
			}
			fmt.Println("Updated note", args[0])
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New note title")
	cmd.Flags().StringVar(&content, "content", "", "New note content")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := doRequest("DELETE", "/api/notes/"+args[0], nil, nil); err != nil {
				fmt.Println(err)
				return
			}
			fmt.Println("Deleted note", args[0])
		},
	}
}

// doRequest performs an authenticated JSON request against the API.
func doRequest(method, path string, payload interface{}, out interface{}) error {
	token, err := config.LoadToken()
	if err != nil {
		return fmt.Errorf("please login first")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}

	return nil
}
