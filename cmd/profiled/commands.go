package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkalra/profiled/internal/config"
)

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the stored profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var prof any
		if err := decodeJSON(resp, &prof); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prof)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the profile JSON in $EDITOR and save the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var prof map[string]any
		if err := decodeJSON(resp, &prof); err != nil {
			return err
		}
		if prof == nil {
			// No profile yet: start from an empty skeleton.
			prof = map[string]any{
				"name": "", "email": "", "education": "",
				"skills": []any{}, "projects": []any{}, "work": []any{}, "links": map[string]any{},
			}
		}

		data, err := json.MarshalIndent(prof, "", "  ")
		if err != nil {
			return err
		}

		tmpFile, err := os.CreateTemp("", "profiled-*.json")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		tmpPath := tmpFile.Name()
		defer os.Remove(tmpPath)

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return err
		}
		tmpFile.Close()

		editorCmd := exec.Command(editor, tmpPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return fmt.Errorf("editor exited with error: %w", err)
		}

		edited, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		var fields map[string]any
		if err := json.Unmarshal(edited, &fields); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		// Existing profiles are updated in place; otherwise a new one is created.
		id, _ := fields["id"].(string)
		var saveResp *http.Response
		if id != "" {
			saveResp, err = client.put(cmd.Context(), "/profile/"+url.PathEscape(id), fields)
		} else {
			saveResp, err = client.post(cmd.Context(), "/profile", fields)
		}
		if err != nil {
			return err
		}

		var saved map[string]any
		if err := decodeJSON(saveResp, &saved); err != nil {
			return err
		}

		printSuccess("Profile saved (id %v)", saved["id"])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete the stored profile. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile")
		if err != nil {
			return err
		}

		var prof map[string]any
		if err := decodeJSON(resp, &prof); err != nil {
			return err
		}
		if prof == nil {
			printWarning("No profile to delete.")
			return nil
		}

		id, _ := prof["id"].(string)
		delResp, err := client.delete(cmd.Context(), "/profile/"+url.PathEscape(id))
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(delResp, &result); err != nil {
			return err
		}

		printSuccess("Profile %s deleted", id)
		return nil
	},
}

func init() {
	profileDeleteCmd.Flags().Bool("confirm", false, "confirm profile deletion")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

// --- query ---

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search and aggregate over the stored profile",
}

var querySearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Keyword-search the profile and show matched fields",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/query/search?q="+url.QueryEscape(q))
		if err != nil {
			return err
		}

		var result struct {
			Profiles []json.RawMessage `json:"profiles"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Profiles) == 0 {
			fmt.Println("No matches found.")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Profiles)
	},
}

var queryProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects tagged with a skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		skill, _ := cmd.Flags().GetString("skill")
		if skill == "" {
			return fmt.Errorf("--skill is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/query/projects?skill="+url.QueryEscape(skill))
		if err != nil {
			return err
		}

		var projects []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Link        string `json:"link"`
		}
		if err := decodeJSON(resp, &projects); err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		for _, p := range projects {
			fmt.Printf("%s", colorize(colorBold, p.Title))
			if p.Description != "" {
				fmt.Printf(" — %s", p.Description)
			}
			fmt.Println()
			if p.Link != "" {
				fmt.Printf("  %s\n", p.Link)
			}
		}
		return nil
	},
}

var querySkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show the most frequent project skill tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/query/skills/top?limit=%d", limit))
		if err != nil {
			return err
		}

		var skills []struct {
			Skill string `json:"skill"`
			Count int    `json:"count"`
		}
		if err := decodeJSON(resp, &skills); err != nil {
			return err
		}

		if len(skills) == 0 {
			fmt.Println("No skills recorded.")
			return nil
		}

		for _, s := range skills {
			fmt.Printf("%4d  %s\n", s.Count, s.Skill)
		}
		return nil
	},
}

func init() {
	queryProjectsCmd.Flags().String("skill", "", "skill tag to filter projects by")
	querySkillsCmd.Flags().Int("limit", 5, "maximum number of skills")
	queryCmd.AddCommand(querySearchCmd)
	queryCmd.AddCommand(queryProjectsCmd)
	queryCmd.AddCommand(querySkillsCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
