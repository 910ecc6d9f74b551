package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/svcreg/bootstrap"
	"github.com/kbukum/svcreg/di"
	"github.com/kbukum/svcreg/errors"
	"github.com/kbukum/svcreg/version"
)

func (a *app) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List registered keys in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLines(cmd.OutOrStdout(), a.registry.Keys())
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Resolve a key or dotted path and print it as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v, err := a.registry.ResolveContext(cmd.Context(), key)
			if errors.HasCode(err, errors.ErrCodeNotFound) {
				return fmt.Errorf("service %q not found", key)
			}
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), v)
		},
	}
}

func (a *app) taggedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tagged <tag>",
		Short: "Resolve every service of a tag and print them as a YAML mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.registry.TaggedContext(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("tag %q: %w", args[0], err)
			}
			node, err := mappingNode(svcs)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), node)
		},
	}
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <tag>",
		Short: "List the keys of a tag without resolving them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLines(cmd.OutOrStdout(), a.registry.KeysByTag(args[0]))
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show registered services and tags as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.NewSummary(a.cfg, a.registry).Write(cmd.OutOrStdout())
		},
	}
}

func versionCmd() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the svcreg version",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if long {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Short())
			return err
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "include branch and build date")
	return cmd
}

// mappingNode builds a YAML mapping that keeps the tag order of svcs.
func mappingNode(svcs *di.Services) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for key, value := range svcs.All() {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&v,
		)
	}
	return node, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
