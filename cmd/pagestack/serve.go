package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/pagestack/pagestack/convert"
	"github.com/pagestack/pagestack/convert/local"
	"github.com/pagestack/pagestack/ocr"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start OCR and PDF conversion server",
	Long:  "Starts an HTTP server exposing the OCR engine and the PDF converter. The REMOTE provider and converter of the run command talk to these endpoints.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var ocrProvider ocr.Provider
		ocrProviderType, _ := cmd.Flags().GetString("ocr-provider")
		if ocrProviderType == "TESSERACT" || ocrProviderType == "TESSERACT_POOL" {
			if !ocr.FeatureTesseractEnabled {
				return errors.New("tesseract support is not compiled into this binary, rebuild with -tags pagestack_feature_ocr_tesseract")
			}

			config := ocr.DefaultTesseractConfig()
			config.Languages, _ = cmd.Flags().GetStringSlice("ocr-languages")

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
		if ocrProvider == nil {
			return errors.New("unsupported ocr provider")
		}

		converter := local.New(local.DefaultConfig())

		app := fiber.New()
		app.Post("/ocr", func(c *fiber.Ctx) error {
			fileHeader, err := c.FormFile("file")
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file form field is required"})
			}
			file, err := fileHeader.Open()
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			defer file.Close()
			image, err := io.ReadAll(file)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}

			result, err := ocrProvider.Recognize(c.Context(), image)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}

			lines := make([]fiber.Map, 0, len(result.Lines))
			for _, line := range result.Lines {
				lines = append(lines, fiber.Map{"text": line.Text, "confidence": line.Confidence})
			}
			return c.JSON(fiber.Map{"text": result.PlainText, "lines": lines})
		})
		app.Post("/convert", func(c *fiber.Ctx) error {
			var request struct {
				HTML       string  `json:"html"`
				FileName   string  `json:"fileName"`
				PageWidth  float64 `json:"pageWidth"`
				PageHeight float64 `json:"pageHeight"`
				Padding    float64 `json:"padding"`
			}
			if err := c.BodyParser(&request); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}

			renderDir, err := os.MkdirTemp("", "pagestack-serve-*")
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			defer os.RemoveAll(renderDir)

			fileName := request.FileName
			if fileName == "" {
				fileName = "document.pdf"
			}
			result, err := converter.Convert(c.Context(), convert.Request{
				HTML:       request.HTML,
				FileName:   fileName,
				OutputDir:  renderDir,
				PageWidth:  request.PageWidth,
				PageHeight: request.PageHeight,
				Padding:    request.Padding,
			})
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}

			pdf, err := os.ReadFile(result.FilePath)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}

			c.Set(fiber.HeaderContentType, "application/pdf")
			return c.Send(pdf)
		})

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint("port")
		if err := app.Listen(fmt.Sprintf("%s:%d", host, port)); err != nil {
			return errors.Join(errors.New("failed to run HTTP server"), err)
		}

		return nil
	},
}

func init() {
	serveCMD.Flags().String("host", "0.0.0.0", "Host server will be listening on")
	serveCMD.Flags().Uint("port", 8884, "Port server will be listening on")

	serveCMD.Flags().String("ocr-provider", "TESSERACT", "OCR provider to use. Possible values are TESSERACT, TESSERACT_POOL")
	serveCMD.Flags().StringSlice("ocr-languages", []string{"eng"}, "List of languages that will be recognized. Those languages must be installed on the target machine")
	serveCMD.Flags().Uint32("ocr-pool-size", 1, "Maximum number of tesseract instances running at the same time")
}
