package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/cla/serial"
)

type headerInfo struct {
	GroupType     string `json:"group_type"`
	Compression   string `json:"compression"`
	BigEndian     bool   `json:"big_endian"`
	Arity         uint32 `json:"arity"`
	Rows          uint32 `json:"rows"`
	PayloadLength uint32 `json:"payload_length"`
}

// inspectReport is printed by the inspect command.
type inspectReport struct {
	Bytes  int        `json:"bytes"`
	Header headerInfo `json:"header"`
	Group  groupInfo  `json:"group"`
}

func newInspectCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the header and content summary of a serialized group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runInspect(a.logger, input)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to a serialized group (required)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runInspect(logger *zap.Logger, path string) (*inspectReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, err := serial.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed header",
		zap.Stringer("type", header.GroupType),
		zap.Stringer("compression", header.Compression),
		zap.Uint32("payload", header.PayloadLength),
	)

	g, err := serial.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	return &inspectReport{
		Bytes: len(data),
		Header: headerInfo{
			GroupType:     header.GroupType.String(),
			Compression:   header.Compression.String(),
			BigEndian:     header.IsBigEndian(),
			Arity:         header.Arity,
			Rows:          header.Rows,
			PayloadLength: header.PayloadLength,
		},
		Group: newGroupInfo(g),
	}, nil
}
