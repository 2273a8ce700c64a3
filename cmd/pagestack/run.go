package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagestack/pagestack"
	"github.com/pagestack/pagestack/clip"
	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/convert/local"
	"github.com/pagestack/pagestack/convert/remote"
	"github.com/pagestack/pagestack/convert/wkhtml"
	"github.com/pagestack/pagestack/export"
	"github.com/pagestack/pagestack/extract"
	"github.com/pagestack/pagestack/notify"
	"github.com/pagestack/pagestack/observability"
	"github.com/pagestack/pagestack/ocr"
	"github.com/pagestack/pagestack/permission"
	"github.com/pagestack/pagestack/picker"
	"github.com/pagestack/pagestack/picker/dir"
	"github.com/pagestack/pagestack/picker/eml"
	"github.com/pagestack/pagestack/picker/files"
)

var runCMD = &cobra.Command{
	Use:   "run [image|directory|mailbox.eml]...",
	Short: "Recognize text in images and export them as one PDF",
	Long:  "Picks images from the given paths, runs text recognition over every one of them, prints the recognized text and exports all pages as a single PDF document.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevelName, _ := cmd.Flags().GetString("log-level")
		var logLevel slog.Level
		if err := logLevel.UnmarshalText([]byte(logLevelName)); err != nil {
			return errors.Join(errors.New("unknown log level"), err)
		}
		logger := observability.NewSlog(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

		languages, _ := cmd.Flags().GetStringSlice("ocr-languages")

		var ocrProvider ocr.Provider
		ocrProviderType, _ := cmd.Flags().GetString("ocr-provider")
		if ocrProviderType == "TESSERACT" || ocrProviderType == "TESSERACT_POOL" {
			if !ocr.FeatureTesseractEnabled {
				return errors.New("tesseract support is not compiled into this binary, rebuild with -tags pagestack_feature_ocr_tesseract or use the REMOTE provider")
			}

			config := ocr.DefaultTesseractConfig()
			config.Languages = languages

			if ocrProviderType == "TESSERACT" {
				tesseract := ocr.NewTesseract(config)
				if err := tesseract.Init(); err != nil {
					return fmt.Errorf("failed to initialize tesseract OCR provider: %s", err.Error())
				}
				defer tesseract.Destroy()
				ocrProvider = tesseract
			} else {
				poolSize, _ := cmd.Flags().GetUint32("ocr-pool-size")
				pool := ocr.NewTesseractPool(poolSize, config)
				if err := pool.Init(cmd.Context()); err != nil {
					return fmt.Errorf("failed to initialize tesseract OCR pool: %s", err.Error())
				}
				defer pool.Destroy(context.Background())
				ocrProvider = pool
			}
		}
		if ocrProviderType == "REMOTE" {
			config := ocr.DefaultRemoteConfig()
			config.Languages = languages
			if baseURL, _ := cmd.Flags().GetString("ocr-remote-url"); baseURL != "" {
				config.BaseURL = baseURL
			}
			ocrProvider = ocr.NewRemote(config)
		}
		if ocrProviderType == "NONE" {
			ocrProvider = ocr.Nop{}
		}
		if ocrProvider == nil {
			return errors.New("unsupported ocr provider")
		}

		var converter convert.Converter
		converterType, _ := cmd.Flags().GetString("converter")
		if converterType == "LOCAL" {
			config := local.DefaultConfig()
			config.Logger = logger
			converter = local.New(config)
		}
		if converterType == "WKHTMLTOPDF" {
			config := wkhtml.DefaultConfig()
			config.Logger = logger
			if binaryPath, _ := cmd.Flags().GetString("wkhtmltopdf-path"); binaryPath != "" {
				config.BinaryPath = binaryPath
			}
			converter = wkhtml.New(config)
		}
		if converterType == "REMOTE" {
			config := remote.DefaultConfig()
			config.Logger = logger
			if baseURL, _ := cmd.Flags().GetString("converter-remote-url"); baseURL != "" {
				config.BaseURL = baseURL
			}
			converter = remote.New(config)
		}
		if converter == nil {
			return errors.New("unsupported converter")
		}

		var sources []picker.Picker
		var closers []io.Closer
		defer func() {
			for _, closer := range closers {
				closer.Close()
			}
		}()
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return errors.Join(errors.New("failed to inspect path"), err)
			}
			if info.IsDir() {
				sources = append(sources, dir.New(os.DirFS(arg), "."))
				continue
			}
			if strings.EqualFold(filepath.Ext(arg), ".eml") {
				file, err := os.Open(arg)
				if err != nil {
					return errors.Join(errors.New("failed to open mail file"), err)
				}
				closers = append(closers, file)
				sources = append(sources, eml.New(file, arg))
				continue
			}
			sources = append(sources, files.New(arg))
		}

		extractConfig := extract.DefaultConfig()
		extractConfig.Logger = logger
		extractConfig.MinConfidence, _ = cmd.Flags().GetFloat64("ocr-min-confidence")
		extractConfig.Parallelism, _ = cmd.Flags().GetInt("ocr-parallelism")

		notifier := notify.NewConsole(os.Stdout)

		var clipboard clip.Clipboard = clip.System{}
		if noClipboard, _ := cmd.Flags().GetBool("no-clipboard"); noClipboard {
			clipboard = clip.Nop{}
		}

		exportConfig := export.DefaultConfig()
		exportConfig.Logger = logger
		if outDir, _ := cmd.Flags().GetString("out-dir"); outDir != "" {
			exportConfig.OutputDir = outDir
		}
		exportConfig.FilePrefix, _ = cmd.Flags().GetString("file-prefix")
		exportConfig.PageWidth, _ = cmd.Flags().GetFloat64("page-width")
		exportConfig.PageHeight, _ = cmd.Flags().GetFloat64("page-height")
		exportConfig.Padding, _ = cmd.Flags().GetFloat64("page-padding")

		controller, err := pagestack.New(&pagestack.Config{
			Gate:      permission.DirProbe{Dir: exportConfig.OutputDir, Logger: logger},
			Picker:    picker.NewMulti(sources...),
			Extractor: extract.New(ocrProvider, extractConfig),
			Exporter:  export.New(converter, clipboard, notifier, exportConfig),
			Notifier:  notifier,
			Logger:    logger,
		})
		if err != nil {
			return errors.Join(errors.New("failed to build controller"), err)
		}

		if err := controller.Pick(cmd.Context()); err != nil {
			return err
		}

		snapshot := controller.Snapshot()
		if len(snapshot.Images) == 0 {
			fmt.Println("No images found in the given paths.")
			return nil
		}
		for i, image := range snapshot.Images {
			fmt.Printf("--- %s ---\n", image.URI)
			if snapshot.Texts[i] == "" {
				fmt.Println("(no text recognized)")
			} else {
				fmt.Println(snapshot.Texts[i])
			}
		}

		if noExport, _ := cmd.Flags().GetBool("no-export"); noExport {
			return nil
		}
		if _, err := controller.Export(cmd.Context()); err != nil {
			if errors.Is(err, export.ErrEmptySelection) {
				return nil
			}
			return err
		}

		return nil
	},
}

func init() {
	runCMD.Flags().String("ocr-provider", "TESSERACT", "OCR provider to use. Possible values are TESSERACT, TESSERACT_POOL, REMOTE, NONE")
	runCMD.Flags().StringSlice("ocr-languages", []string{"eng"}, "List of languages that will be recognized. Those languages must be installed on the target machine or the OCR server")
	runCMD.Flags().Uint32("ocr-pool-size", 1, "Maximum number of tesseract instances running at the same time")
	runCMD.Flags().String("ocr-remote-url", "", "Base URL of the OCR server. Only used with the REMOTE provider")
	runCMD.Flags().Float64("ocr-min-confidence", 0.5, "Recognized lines with a reported confidence below this value are dropped. From 0 to 1")
	runCMD.Flags().Int("ocr-parallelism", 0, "Maximum number of images recognized at the same time. 0 means all at once")

	runCMD.Flags().String("converter", "LOCAL", "PDF converter to use. Possible values are LOCAL, WKHTMLTOPDF, REMOTE")
	runCMD.Flags().String("converter-remote-url", "", "Base URL of the PDF conversion server. Only used with the REMOTE converter")
	runCMD.Flags().String("wkhtmltopdf-path", "", "Path to the wkhtmltopdf binary. Default resolves from PATH")

	runCMD.Flags().String("out-dir", "", "Directory where the PDF is created. Default is the OS temp dir")
	runCMD.Flags().String("file-prefix", "pagestack", "First segment of the generated PDF file name")
	runCMD.Flags().Float64("page-width", convert.DefaultPageWidth, "PDF page width in points")
	runCMD.Flags().Float64("page-height", convert.DefaultPageHeight, "PDF page height in points")
	runCMD.Flags().Float64("page-padding", 0, "Space between the page edge and the image in points")

	runCMD.Flags().Bool("no-export", false, "Only recognize and print text, do not export a PDF")
	runCMD.Flags().Bool("no-clipboard", false, "Do not place the exported PDF path on the system clipboard")
	runCMD.Flags().String("log-level", "warn", "Minimum log level. Possible values are debug, info, warn, error")
}
