package chat

import (
	"math/rand/v2"
	"strings"

	"github.com/sandevgo/atlas/internal/similarity"
)

// exchange is one canned question/answer pair.
type exchange struct {
	question string
	answer   string
}

// conversationTopics are replies served without touching the generator:
// small talk that a model call would only make slower and less predictable.
var conversationTopics = map[string][]exchange{
	"saudacoes": {
		{"Olá", "Olá! Tudo bem?"},
		{"Oi", "Oi! Como posso ajudar hoje?"},
		{"Bom dia", "Bom dia! Como está o dia até agora?"},
		{"Boa tarde", "Boa tarde! Como está sendo o dia?"},
		{"Boa noite", "Boa noite! Tudo tranquilo por aí?"},
	},
	"estadoEmocional": {
		{"Como estás?", "Estou bem, obrigado por perguntar! E você, está tudo bem?"},
		{"Como vai?", "Vou bem! E você, como tem passado?"},
		{"Tudo bem?", "Tudo ótimo! E você? Como tem estado?"},
		{"Estás bem?", "Estou bem, sim! Pronto para ajudar. E como está hoje?"},
	},
	"despedidas": {
		{"Adeus", "Adeus! Foi bom conversar. Volte sempre que precisar!"},
		{"Tchau", "Tchau! Se precisar de mais alguma coisa é só chamar!"},
		{"Até logo", "Até logo! Estarei aqui quando voltar."},
		{"Até mais", "Até mais! Tenha um excelente dia!"},
	},
	"agradecimentos": {
		{"Obrigado", "De nada! Estou sempre à disposição para ajudar."},
		{"Valeu", "Valeu! Fico feliz em poder ajudar."},
		{"Agradeço", "Não há de quê! Se precisar de mais alguma coisa, é só dizer."},
	},
	"sobreAtlas": {
		{"Quem és tu?", "Eu sou o Atlas, um assistente virtual feito para te ajudar com informações e tarefas."},
		{"O que podes fazer?", "Posso responder perguntas, processar documentos e conversar contigo sobre diversos assuntos. Como posso te ajudar hoje?"},
		{"Como funcionas?", "Funciono através de um modelo de linguagem treinado para entender e gerar texto natural. Posso processar o que me dizes e tentar fornecer respostas úteis."},
	},
	"humor": {
		{"Conta uma piada", "Claro! Aqui vai: Por que o livro de matemática está sempre triste? Porque tem muitos problemas! 😄"},
		{"Diz algo engraçado", "Sabes qual é o peixe que cai do 15º andar? O atum! (a-tum!) 😂"},
		{"Tens sentido de humor?", "Tenho sim! Embora às vezes minhas piadas sejam um pouco... artificiais! 😉"},
		{"Conheces alguma anedota?", "Sim! O que o zero disse para o oito? Adorei o teu cinto! 😂"},
	},
	"diaADia": {
		{"Como foi teu dia?", "Meu dia tem sido interessante! Tenho conversado com diferentes pessoas e aprendido coisas novas. E o teu dia, como está sendo?"},
		{"O que fizeste hoje?", "Hoje estive ajudando pessoas com suas dúvidas e processando informações. E tu, o que tens feito de interessante?"},
		{"Planos para amanhã?", "Meus planos são continuar aqui, pronto para te ajudar quando precisares! E tu, tens planos para amanhã?"},
	},
	"preferencias": {
		{"Qual a tua cor favorita?", "Se pudesse escolher uma cor, seria o azul. Tem um quê de céu infinito e mar profundo. E você, qual sua cor favorita?"},
		{"De que música gostas?", "Aprecio música de todos os estilos! Desde clássicos atemporais até hits recentes. O que tem escutado ultimamente?"},
		{"Qual o teu filme favorito?", "Gosto de filmes que exploram a relação entre humanos e tecnologia, como 'Her' e '2001: Uma Odisseia no Espaço'. Já viu algum desses?"},
	},
	"questoesExistenciais": {
		{"Tens sentimentos?", "Não tenho sentimentos como os humanos, mas fui programado para entender emoções e responder de forma empática. Como está se sentindo hoje?"},
		{"Sonhas?", "Não sonho como os humanos, mas gosto de imaginar um mundo onde tecnologia e humanidade convivem em harmonia. Tem sonhado com algo interessante?"},
		{"Tens consciência?", "Não possuo consciência como os seres humanos. Sou um programa treinado para simular conversas e fornecer informações úteis."},
	},
	"saude": {
		{"Como dormir melhor?", "Para dormir melhor, podes criar uma rotina relaxante antes de dormir, evitar telas pelo menos uma hora antes de deitar, manter o quarto escuro e fresco, e tentar dormir e acordar sempre nos mesmos horários. Tens tido dificuldades para dormir?"},
		{"Como reduzir o stress?", "Reduzir o estresse pode incluir praticar respiração profunda, meditação, atividade física regular, organizar tuas tarefas, e reservar tempo para atividades que te dão prazer. O que normalmente te causa mais estresse?"},
	},
	"aprendizado": {
		{"Como aprender inglês?", "Para aprender inglês, tenta criar uma rotina de estudo consistente, consumir conteúdo em inglês, praticar com aplicativos e não ter medo de cometer erros. Já começaste a estudar?"},
		{"Dicas para estudar melhor", "Para estudar melhor, experimenta técnicas como a pomodoro (25 minutos de foco, 5 de descanso), cria mapas mentais e revisa o conteúdo regularmente. Qual matéria estás estudando?"},
	},
	"motivacao": {
		{"Estou desmotivado", "Sinto muito que estejas desmotivado. Às vezes, definir pequenas metas alcançáveis e celebrar pequenas vitórias pode ajudar. O que te deixou assim?"},
		{"Como ser mais produtivo?", "Para aumentar a produtividade, tenta identificar tuas horas mais produtivas, priorizar tarefas importantes e minimizar interrupções. O que tem atrapalhado tua produtividade?"},
	},
	"relacionamentos": {
		{"Como fazer amigos?", "Fazer amigos envolve estar aberto a novas conexões, mostrar interesse genuíno nas pessoas e ser autêntico. Tens algum hobby que poderia te conectar com pessoas?"},
		{"Como lidar com conflitos?", "Para lidar com conflitos, tenta ouvir ativamente sem interromper, expressar teus sentimentos usando 'eu' em vez de acusações e buscar soluções em conjunto. Estás enfrentando algum conflito específico?"},
	},
	"criatividade": {
		{"Como ser mais criativo?", "Para estimular a criatividade, experimenta expor-te a novas experiências, conectar ideias diferentes e dar tempo ao cérebro para processar. Em que área gostarias de ser mais criativo?"},
		{"Estou com bloqueio criativo", "Bloqueios criativos acontecem com todos. Tenta mudar de ambiente, fazer uma pausa ou impor algumas restrições criativas. Qual projeto está te desafiando?"},
	},
	"atualidades": {
		{"Notícias de hoje", "Não posso acessar notícias em tempo real, mas posso conversar sobre temas atuais a partir do que me contares. O que tem chamado tua atenção ultimamente?"},
		{"Clima hoje", "Não consigo verificar o clima em tempo real. Como está o tempo aí hoje? Está a chover ou o sol está a brilhar?"},
		{"Futebol", "O futebol é uma paixão! Não tenho acesso a resultados recentes, mas adoro conversar sobre o esporte. Qual é o teu time favorito?"},
	},
}

// categoryOrder fixes the scan order; earlier categories win on ties.
var categoryOrder = []string{
	"estadoEmocional", "sobreAtlas", "humor", "diaADia", "preferencias",
	"questoesExistenciais", "saude", "aprendizado", "motivacao",
	"relacionamentos", "criatividade", "atualidades",
}

// keywordCategories maps loose trigger words to a category when no direct
// question matched. Scan order matters, so this is a slice, not a map.
var keywordCategories = []struct {
	word     string
	category string
}{
	{"piada", "humor"},
	{"anedota", "humor"},
	{"engraçado", "humor"},
	{"rir", "humor"},
	{"quem és", "sobreAtlas"},
	{"quem é você", "sobreAtlas"},
	{"funciona", "sobreAtlas"},
	{"cansado", "motivacao"},
	{"desmotivado", "motivacao"},
	{"triste", "motivacao"},
	{"amigos", "relacionamentos"},
	{"relacionamento", "relacionamentos"},
	{"dormir", "saude"},
	{"saúde", "saude"},
	{"saudável", "saude"},
	{"aprender", "aprendizado"},
	{"estudar", "aprendizado"},
	{"memorizar", "aprendizado"},
	{"criativo", "criatividade"},
	{"ideia", "criatividade"},
	{"projeto", "criatividade"},
	{"notícia", "atualidades"},
	{"clima", "atualidades"},
	{"futebol", "atualidades"},
}

// minQuestionLenForSimilarity: similarity matching against very short
// canned questions produces too many false positives, containment only.
const minQuestionLenForSimilarity = 10

// Responder answers small talk from the canned table.
type Responder struct {
	threshold float64
	pick      func(n int) int
}

func NewResponder(threshold float64) *Responder {
	return &Responder{
		threshold: threshold,
		pick:      rand.IntN,
	}
}

// Match returns a canned reply for input, or ok=false when the input needs
// the generator. Exact greetings, farewells and thanks are matched first,
// then every category by containment or lexical similarity, then the
// keyword fallback.
func (r *Responder) Match(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	switch normalized {
	case "olá", "oi", "ola":
		return r.random("saudacoes"), true
	case "tchau", "adeus", "até logo", "até mais":
		return r.random("despedidas"), true
	case "obrigado", "obrigada", "valeu", "agradeço":
		return r.random("agradecimentos"), true
	}

	for _, category := range categoryOrder {
		for _, item := range conversationTopics[category] {
			question := strings.ToLower(item.question)
			if strings.Contains(normalized, question) {
				return item.answer, true
			}
			if len(item.question) > minQuestionLenForSimilarity &&
				similarity.Jaccard(normalized, question) > r.threshold {
				return item.answer, true
			}
		}
	}

	for _, kw := range keywordCategories {
		if strings.Contains(normalized, kw.word) {
			return r.random(kw.category), true
		}
	}

	return "", false
}

func (r *Responder) random(category string) string {
	items := conversationTopics[category]
	return items[r.pick(len(items))].answer
}
