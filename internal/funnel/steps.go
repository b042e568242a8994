package funnel

// Step maps a canonical event action to its display label in the slider
// funnel. The ordering is the fixed business sequence of the funnel, not
// anything derived from the data.
type Step struct {
	Action string `json:"event"`
	Label  string `json:"step"`
}

var stepsOrder = []Step{
	{Action: "Enpal Source Cookie", Label: "Entry Point"},
	{Action: "Per quale prodotto vuoi scoprire i bonus?", Label: "Prodotto/Bonus"},
	{Action: "Per quale tipo di edificio vuoi scoprire i bonus?", Label: "Tipo Edificio"},
	{Action: "Qual è l'indirizzo dell'edificio?", Label: "Indirizzo"},
	{Action: "Quando hai intenzione di acquistare il tuo prossimo sistema energetico?", Label: "Decisione"},
	{Action: "Qual è il tuo nome?", Label: "Nome"},
	{Action: "Qual è il tuo indirizzo email?", Label: "Email"},
	{Action: "Qual è il tuo numero di telefono?", Label: "Telefono"},
	{Action: "slider-success", Label: "Lead Completato"},
}

// Steps returns the fixed funnel sequence.
func Steps() []Step {
	steps := make([]Step, len(stepsOrder))
	copy(steps, stepsOrder)
	return steps
}

// EntryLabel is the label of the funnel's first step, excluded from
// critical-step analysis.
const EntryLabel = "Entry Point"
