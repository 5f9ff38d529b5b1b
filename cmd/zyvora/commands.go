package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zyvora/zyvora/internal/config"
	"github.com/zyvora/zyvora/internal/tutor"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the tutor a question",
	Long: `Ask the tutor a question against a running zyvora server.

Examples:
  zyvora chat "explain photosynthesis"
  zyvora chat --user alice --lang hi "what is gravity?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		lang, _ := cmd.Flags().GetString("lang")

		if userID == "" {
			// One-off sessions get a throwaway identity so the default
			// profile applies without colliding with stored students.
			userID = uuid.New().String()
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/chat", map[string]string{
			"user_id": userID,
			"message": args[0],
			"lang":    lang,
		})
		if err != nil {
			return err
		}

		var result struct {
			tutor.Reply
			Error string `json:"error"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		if result.Error != "" {
			printError("tutor error: %s", result.Error)
			return fmt.Errorf("chat failed")
		}

		fmt.Fprintln(os.Stdout, result.Reply.Reply)
		return nil
	},
}

// --- diagnostic ---

var diagnosticCmd = &cobra.Command{
	Use:   "diagnostic",
	Short: "Run the three-question diagnostic and store the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		lang, _ := cmd.Flags().GetString("lang")
		if userID == "" {
			return fmt.Errorf("--user is required")
		}

		reader := bufio.NewReader(os.Stdin)
		questions := []struct {
			key    string
			prompt string
		}{
			{"q1", "Why do plants need sunlight?"},
			{"q2", "What happens to a car's speed when the engine force increases?"},
			{"q3", "How confident are you in science, from 0 to 5?"},
		}

		answers := map[string]string{}
		for _, q := range questions {
			fmt.Fprintf(os.Stderr, "%s\n> ", q.prompt)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading answer: %w", err)
			}
			answers[q.key] = strings.TrimSpace(line)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/diagnostic", map[string]any{
			"user_id": userID,
			"answers": answers,
			"lang":    lang,
		})
		if err != nil {
			return err
		}

		var result map[string]json.RawMessage
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Profile stored for %s", userID)
		fmt.Fprintln(os.Stdout, string(result["profile"]))
		return nil
	},
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage student profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user_id>",
	Short: "Show a student profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile/"+args[0])
		if err != nil {
			return err
		}

		var profile map[string]any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}
		if len(profile) == 0 {
			printWarning("no profile for %s", args[0])
			return nil
		}

		out, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <user_id>",
	Short: "Delete a student profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/profile/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Profile deleted for %s", args[0])
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage zyvora configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration (secrets omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			// Still show what we can without the required secrets.
			printWarning("%v", err)
			cfg = config.Config{}
		}

		for _, info := range config.ShowAll(cfg) {
			fmt.Fprintf(os.Stdout, "%-20s %-28s %s\n", info.Key, info.EnvVar, info.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config key",
	Long: `Set a non-secret config key in the config file.

Valid keys:
  ` + strings.Join(config.ValidKeys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	chatCmd.Flags().String("user", "", "student identifier (default: a one-off id)")
	chatCmd.Flags().String("lang", "", "reply language code, e.g. hi or es")

	diagnosticCmd.Flags().String("user", "", "student identifier")
	diagnosticCmd.Flags().String("lang", "en", "preferred reply language")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
