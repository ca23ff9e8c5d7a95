package ingest

import (
	"docchat/internal/adapter/utils"
	"docchat/internal/config"
	"docchat/internal/domain/commonModels"
)

//splitter

// WindowText cuts text into fixed-size windows of at most size characters,
// each overlapping the previous by overlap characters. The cut points are
// purely positional; the same input always yields the same chunks.
// Windows are measured in runes so a multibyte character is never torn.
func WindowText(text string, size int, overlap int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func PrepareChunks(pages []RawPage, doc commonModels.Document) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		stringChunks := WindowText(page.Content, config.ChunkSize, config.ChunkOverlap)

		for i, text := range stringChunks {
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        utils.GetNewUUID(),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}

	return allChunks
}
