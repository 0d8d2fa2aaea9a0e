package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	zlog "github.com/rs/zerolog/log"

	"github.com/sandevgo/atlas/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// loadTokenizer fetches the cl100k_base encoding. tiktoken downloads the BPE
// ranks on first use, so this fails without egress.
func loadTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// PromptBuilder assembles generation prompts: persona, retrieved knowledge,
// recent history, then the task block. The knowledge section is capped by a
// token budget so a fat knowledge base cannot starve the actual question.
type PromptBuilder struct {
	persona      string
	contextLimit int
	enc          *tiktoken.Tiktoken
}

func NewPromptBuilder(persona string, contextTokenBudget int) *PromptBuilder {
	enc, err := loadTokenizer()
	if err != nil {
		zlog.Warn().Err(err).Msg("tokenizer unavailable, knowledge context will not be trimmed")
	}
	return &PromptBuilder{
		persona:      persona,
		contextLimit: contextTokenBudget,
		enc:          enc,
	}
}

func (b *PromptBuilder) countTokens(text string) int {
	return len(b.enc.Encode(text, nil, nil))
}

// Chat builds the prompt for a plain text message.
func (b *PromptBuilder) Chat(entries []core.ScoredEntry, history []core.ConversationTurn, userInput string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.knowledgeBlock(entries))
	sb.WriteString(b.historyBlock(history))

	fmt.Fprintf(&sb, "Usuário: %s\n\n", userInput)
	sb.WriteString(`IMPORTANTE:
1. Responda como se fosse uma pessoa real conversando, com naturalidade e personalidade
2. Use expressões coloquiais e um tom amigável
3. Faça perguntas de volta ao usuário para manter o diálogo fluindo, mas sem usar o nome do usuário
4. Evite respostas genéricas ou que pareçam de um chatbot
5. Seja conciso e objetivo, indo direto ao ponto da resposta
6. Ocasionalmente use expressões como "olha", "sabes", "pois é", "então" para soar mais natural

Atlas:
`)
	return sb.String()
}

// DocumentWhole builds the prompt for a document that fit in one chunk.
func (b *PromptBuilder) DocumentWhole(entries []core.ScoredEntry, history []core.ConversationTurn, fileName, text, userNote string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.knowledgeBlock(entries))
	sb.WriteString(b.historyBlock(history))

	fmt.Fprintf(&sb, "Documento enviado pelo usuário: %q\nConteúdo do documento:\n\"\"\"\n%s\n\"\"\"\n\n", fileName, text)
	sb.WriteString(userNoteLine(userNote, "O usuário não incluiu nenhuma pergunta específica. Analise o conteúdo do documento e forneça um resumo útil."))
	sb.WriteString("\n\nBaseado no conteúdo do documento acima, por favor responda de forma detalhada e útil.")
	return sb.String()
}

// DocumentFirst builds the prompt for part one of a chunked document.
func (b *PromptBuilder) DocumentFirst(entries []core.ScoredEntry, history []core.ConversationTurn, fileName string, total int, chunk, userNote string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.knowledgeBlock(entries))
	sb.WriteString(b.historyBlock(history))

	fmt.Fprintf(&sb, "Documento enviado pelo usuário: %q (PARTE 1/%d)\n", fileName, total)
	fmt.Fprintf(&sb, "Este é um documento grande que foi dividido em %d partes para processamento. Esta é a PRIMEIRA parte.\n\n", total)
	fmt.Fprintf(&sb, "Conteúdo da PARTE 1 do documento:\n\"\"\"\n%s\n\"\"\"\n\n", chunk)
	sb.WriteString(userNoteLine(userNote, "O usuário não incluiu nenhuma pergunta específica."))
	fmt.Fprintf(&sb, "\n\nForneça uma análise inicial apenas desta primeira parte do documento. Mencione que está analisando apenas a primeira parte e que existem %d partes adicionais que não foram vistas ainda.", total-1)
	return sb.String()
}

// DocumentNext builds the prompt for a continuation chunk.
func (b *PromptBuilder) DocumentNext(history []core.ConversationTurn, fileName string, part, total int, chunk string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.historyBlock(history))

	fmt.Fprintf(&sb, "Documento enviado pelo usuário: %q (PARTE %d/%d)\n", fileName, part, total)
	fmt.Fprintf(&sb, "O usuário pediu para continuar a análise do documento. Esta é a parte %d de %d.\n\n", part, total)
	fmt.Fprintf(&sb, "Conteúdo da PARTE %d do documento:\n\"\"\"\n%s\n\"\"\"\n\n", part, chunk)
	fmt.Fprintf(&sb, "Continue a análise do documento com base nesta parte. Mencione que esta é a parte %d de %d.", part, total)
	return sb.String()
}

// ImageAnalysis builds the prompt that accompanies an inline image.
func (b *PromptBuilder) ImageAnalysis(entries []core.ScoredEntry, history []core.ConversationTurn, userNote string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.knowledgeBlock(entries))
	sb.WriteString(b.historyBlock(history))

	sb.WriteString("Analise a imagem enviada pelo usuário.\n")
	if userNote != "" {
		fmt.Fprintf(&sb, "O usuário disse: %q\n", userNote)
	} else {
		sb.WriteString("O usuário enviou uma imagem sem texto adicional.\n")
	}
	sb.WriteString("Responda de forma detalhada e útil, explicando o que você vê na imagem.")
	return sb.String()
}

// ImageFallback builds the text-only prompt used when the multimodal call
// fails: the model is asked to tell the user the image could not be read.
func (b *PromptBuilder) ImageFallback(entries []core.ScoredEntry, history []core.ConversationTurn, userNote string) string {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.knowledgeBlock(entries))
	sb.WriteString(b.historyBlock(history))

	sb.WriteString("O usuário enviou uma imagem, mas não consegui processá-la diretamente.\n")
	if userNote != "" {
		fmt.Fprintf(&sb, "O usuário disse junto com a imagem: %q\n", userNote)
	} else {
		sb.WriteString("O usuário enviou apenas a imagem sem texto adicional.\n")
	}
	sb.WriteString("\nPor favor, explique ao usuário que você não conseguiu processar a imagem e peça que ele descreva o que contém na imagem ou tente enviá-la novamente em um formato diferente ou com um tamanho menor.")
	return sb.String()
}

// knowledgeBlock formats the retrieved entries, dropping the tail once the
// token budget is spent. Entries arrive best-first, so truncation keeps the
// highest scored ones. Without a tokenizer the block is left untrimmed;
// retrieval already caps it at top-k entries.
func (b *PromptBuilder) knowledgeBlock(entries []core.ScoredEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Informações relevantes baseadas em conversas anteriores:\n")

	spent := 0
	if b.enc != nil {
		spent = b.countTokens(sb.String())
	}

	for _, entry := range entries {
		line := fmt.Sprintf("Q: %s\nR: %s\n\n", entry.Question, entry.Answer)
		if b.enc != nil {
			cost := b.countTokens(line)
			if spent+cost > b.contextLimit {
				break
			}
			spent += cost
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func (b *PromptBuilder) historyBlock(history []core.ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Conversas recentes:\n")
	for _, turn := range history {
		fmt.Fprintf(&sb, "Usuário: %s\nAtlas: %s\n\n", turn.User, turn.Bot)
	}
	return sb.String()
}

func userNoteLine(note, fallback string) string {
	if note == "" {
		return fallback
	}
	return fmt.Sprintf("O usuário também disse: %q", note)
}
