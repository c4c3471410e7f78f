package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/symcore"
)

func newCallCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "call [file]",
		Short: "Run one tool call read from a file or stdin",
		Long:  "Reads a JSON tool request {\"tool\": ..., \"params\": {...}} and prints the response.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := FromCommand(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				file = args[0]
			}
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			var req symcore.ToolRequest
			if err := dec.Decode(&req); err != nil {
				return fmt.Errorf("invalid tool request: %w", err)
			}

			start := time.Now()
			resp := symcore.HandleToolCallLimited(req, cc.Config.Limits())
			cc.Logger.Debug("tool call",
				zap.String("tool", req.Tool),
				zap.Duration("duration", time.Since(start)),
				zap.String("code", string(resp.Code)),
			)
			if err := Print(cmd.OutOrStdout(), cc.Output, resp); err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("%s: %s", resp.Code, resp.Error)
			}
			return nil
		},
	}
	return cmd
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := FromCommand(cmd)
			if err != nil {
				return err
			}
			var spec interface{}
			if err := json.Unmarshal([]byte(symcore.ToolSpec()), &spec); err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), cc.Output, spec)
		},
	}
}

func newRenderCmd() *cobra.Command {
	var latex bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Print the canonical form of a JSON expression",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := FromCommand(cmd)
			if err != nil {
				return err
			}
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var obj map[string]interface{}
			if err := json.Unmarshal(data, &obj); err != nil {
				return fmt.Errorf("invalid expression: %w", err)
			}
			e, err := symcore.FromJSON(obj)
			if err != nil {
				return err
			}
			if err := cc.Config.Limits().Check(e); err != nil {
				return err
			}
			out := symcore.String(e)
			if latex {
				out = symcore.LaTeX(e)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of text")
	return cmd
}
