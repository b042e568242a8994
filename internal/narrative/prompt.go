package narrative

import "fmt"

const promptTemplate = `Sei un analista di dati esperto. Analizza i seguenti dati di Google Analytics confrontando le performance della landing page OLD vs NEW per un funnel slider.

PERIODO DI ANALISI: Dal %s al %s

DATI OLD LANDING PAGE:
%s

DATI NEW LANDING PAGE:
%s

ISTRUZIONI IMPORTANTI:
- Analizza TUTTI gli eventi presenti nella lista (event_action), non solo i KPI principali
- Per ogni evento, considera sia il count totale che il ratio rispetto a "Enpal Source Cookie" (punto di partenza del funnel)
- Confronta i numeri assoluti E le percentuali tra OLD e NEW

Fornisci un'analisi COMPLETA in italiano che include:

1. **Confronto KPI Principali**:
   - Leads (slider-success): confronto numeri assoluti e variazione %%
   - Start Rate: confronto e variazione %%
   - End Rate: confronto e variazione %%
   - CAP Success (slider-success / Per quale tipo di edificio vuoi scoprire i bonus?): confronto e variazione %%
   - Registration Rate: confronto e variazione %%

2. **Analisi Completa del Funnel**:
   - Analizza OGNI evento presente nei dati
   - Per ogni step del funnel, indica: count OLD vs NEW, ratio OLD vs NEW
   - Identifica dove ci sono le differenze maggiori tra le due landing

3. **Drop-off Analysis**:
   - Identifica i passaggi dove si perdono più utenti
   - Calcola il drop-off tra step consecutivi del funnel
   - Evidenzia differenze di drop-off tra OLD e NEW

4. **Conclusione Finale**:
   IMPORTANTE: Termina SEMPRE con una frase conclusiva chiara nel formato:
   "**Nel periodo dal %s al %s, la landing page [OLD/NEW] ha performato meglio perché...**"

   Spiega brevemente il motivo principale (es: più leads, migliore conversion rate, etc.)

Usa tabelle o elenchi puntati per rendere i confronti chiari e leggibili.`

// BuildPrompt assembles the analyst prompt for the two cohort digests.
func BuildPrompt(old, new DataSummary, startDate, endDate string) string {
	return fmt.Sprintf(promptTemplate, startDate, endDate, old.Format(), new.Format(), startDate, endDate)
}
