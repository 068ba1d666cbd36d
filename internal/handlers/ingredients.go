package handlers

import (
	"net/http"
)

// ListIngredients returns every stored ingredient.
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, engine.ListIngredients(r.Context()))
}

// DeleteIngredient removes an ingredient selected by id or name fragment.
// When the ingredient belonged to a single recipe the response names the
// recipe removed with it.
func DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	id, err := optionalID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	removal, err := engine.DeleteIngredient(r.Context(), id, optionalName(r))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removal)
}
