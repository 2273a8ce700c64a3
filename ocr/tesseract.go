package ocr

// Configuration for initializing Tesseract OCR provider
type TesseractConfig struct {
	// List of language codes that should be recognized. More languages - more processing time. Order matters. Primary language has to go first as it will act as fallback. By default it will be ["eng"]
	Languages []string `json:"languages"`
	// Variables to pass on tesseract initialization. For example you can pass {"load_system_dawg":"0"} to disable loading words list from the system
	//
	// Default is {"load_system_dawg": "0", "load_freq_dawg": "0", "load_punc_dawg": "0", "load_number_dawg": "0", "load_unambig_dawg": "0", "load_bigram_dawg": "0"}
	Variables map[string]string `json:"variables"`
	// Image formats supported by tesseract. Tesseract requires you to install third party libraries on the target machine to support all the image formats.
	// If you cant do this, you can redefine this list of supported formats so images will be automatically transcoded before recognition.
	// image/png is the only required format that must be supported and cannot be disabled.
	// Check supported formats here `https://tesseract-ocr.github.io/tessdoc/InputFormats.html`
	//
	// Default value is ["image/png", "image/jpeg", "image/tiff", "image/pnm", "image/gif", "image/webp"].
	// Tesseract doesnt support compressed "image/bmp" image type. So its better to transcode it to PNG.
	SupportedImageFormats []string `json:"supportedImageFormats"`
}

func DefaultTesseractConfig() TesseractConfig {
	return TesseractConfig{
		Languages: []string{"eng"},
		Variables: map[string]string{
			"load_system_dawg":  "0",
			"load_freq_dawg":    "0",
			"load_punc_dawg":    "0",
			"load_number_dawg":  "0",
			"load_unambig_dawg": "0",
			"load_bigram_dawg":  "0",
		},
		SupportedImageFormats: []string{"image/png", "image/jpeg", "image/tiff", "image/pnm", "image/gif", "image/webp"},
	}
}
