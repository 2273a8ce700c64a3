// Package compose renders picked images into a self contained HTML document,
// one image per printed page. The document references no external resources,
// every image travels inline as a data URI.
package compose

import (
	"strings"

	"github.com/pagestack/pagestack/asset"
)

const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
html, body { margin: 0; padding: 0; }
.page { width: 100%; height: 100vh; display: flex; align-items: center; justify-content: center; }
.page img { max-width: 100%; max-height: 100%; object-fit: contain; }
</style>
</head>
<body>
`

const documentTail = `</body>
</html>
`

// PageBreakStyle forces a page break after an element when printing.
const PageBreakStyle = "page-break-after: always"

// Document builds the printable HTML for the given images. Page order
// follows slice order. Every page except the last carries an explicit page
// break, so N images produce exactly N-1 breaks. No images produce a valid
// document with an empty body.
func Document(images []asset.Image) string {
	var b strings.Builder
	b.Grow(len(documentHead) + len(documentTail) + payloadSize(images))

	b.WriteString(documentHead)
	for i, img := range images {
		b.WriteString(`<div class="page"`)
		if i < len(images)-1 {
			b.WriteString(` style="`)
			b.WriteString(PageBreakStyle)
			b.WriteString(`"`)
		}
		b.WriteString(`><img src="`)
		b.WriteString(img.DataURI())
		b.WriteString(`" alt=""></div>`)
		b.WriteString("\n")
	}
	b.WriteString(documentTail)

	return b.String()
}

func payloadSize(images []asset.Image) int {
	size := 0
	for _, img := range images {
		size += len(img.Base64Payload) + 128
	}
	return size
}
