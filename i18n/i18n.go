// Package i18n holds the French and English messages shown by the console.
package i18n

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "fr"

var messages = map[string]map[string]string{
	"fr": {
		// violation codes
		"required":             "Requis",
		"not_a_word":           "Vous devez saisir un mot, pas un nombre",
		"must_not_be_negative": "Ne doit pas être négatif",
		"must_be_positive":     "Doit être positif",
		"out_of_range":         "Hors limites",

		// field labels
		"field.designation": "désignation",
		"field.price":       "prix",
		"field.quantity":    "quantité",
		"field.discount":    "remise",

		"menu.title":    "Menu Principal:",
		"menu.1":        "1. Créer un Article",
		"menu.2":        "2. Créer un Article en Solde",
		"menu.3":        "3. Créer une Facture",
		"menu.4":        "4. Ajouter un Achat à une Facture",
		"menu.5":        "5. Afficher les Factures",
		"menu.6":        "6. Exporter les Achats d'une Facture",
		"menu.7":        "7. Quitter",
		"menu.prompt":   "Veuillez choisir une option (1-7): ",
		"menu.invalid":  "Choix invalide. Veuillez réessayer.",
		"menu.goodbye":  "Au revoir!",
		"prompt.code":   "Entrez le code de l'article: ",
		"prompt.name":   "Veuillez entrer votre désignation: ",
		"prompt.price":  "Entrez le prix de l'article (MAD): ",
		"prompt.cat":    "Entrez la catégorie (Informatique/Bureautique): ",
		"prompt.disc":   "Entrez le pourcentage de remise (doit inclure '%'): ",
		"prompt.inv":    "Entrez le numéro de la facture: ",
		"prompt.art":    "Entrez le numéro de l'article: ",
		"prompt.qty":    "Entrez la quantité: ",
		"prompt.path":   "Entrez le nom du fichier (vide pour le dossier d'export): ",
		"ok.name":       "Désignation acceptée : %s",
		"ok.price":      "Prix accepté : %s MAD",
		"ok.cat":        "Catégorie acceptée : %s",
		"ok.disc":       "Remise acceptée : %s%%",
		"ok.article":    "Article créé avec succès!",
		"ok.discounted": "Article en solde créé avec succès!",
		"ok.invoice":    "Facture #%d créée avec succès!",
		"ok.purchase":   "Achat ajouté à la facture!",
		"ok.export":     "Achats de la facture #%d exportés.",
		"list.invoices": "Sélectionnez une facture:",
		"list.invoice":  "%d. Facture #%d",
		"list.articles": "Sélectionnez un article:",
		"err.field":     "Erreur : %s : %s",
		"err.price_mad": "Erreur : Le prix doit se terminer par 'MAD'. Veuillez réessayer.",
		"err.price_num": "Erreur : Veuillez entrer un prix numérique valide suivi de 'MAD'.",
		"err.cat":       "Erreur : La catégorie doit être 'Informatique' ou 'Bureautique'. Veuillez réessayer.",
		"err.disc_pct":  "Erreur : la remise doit inclure '%'. Veuillez réessayer.",
		"err.disc_num":  "Erreur : Veuillez entrer une remise numérique valide.",
		"err.number":    "Erreur : Veuillez entrer un nombre entier.",
		"err.category":  "Erreur liée à la catégorie : %s",
		"err.duplicate": "Erreur : Cet achat existe déjà dans la facture.",
		"err.final":     "Erreur : La facture est finalisée.",
		"err.unknown":   "Une erreur est survenue : %s",
		"err.no_sink":   "Erreur : Aucune destination d'export configurée.",
		"err.no_inv":    "Aucune facture disponible. Veuillez d'abord créer une facture.",
		"err.no_art":    "Aucun article disponible. Veuillez d'abord créer un article.",
		"err.bad_inv":   "Facture invalide.",
		"err.bad_art":   "Article invalide.",
		"none.invoices": "Aucune facture à afficher.",
		"total":         "Total : %s MAD",
	},
	"en": {
		"required":             "Required",
		"not_a_word":           "You must enter a word, not a number",
		"must_not_be_negative": "Must not be negative",
		"must_be_positive":     "Must be positive",
		"out_of_range":         "Out of range",

		"field.designation": "designation",
		"field.price":       "price",
		"field.quantity":    "quantity",
		"field.discount":    "discount",

		"menu.title":    "Main menu:",
		"menu.1":        "1. Create an article",
		"menu.2":        "2. Create a discounted article",
		"menu.3":        "3. Create an invoice",
		"menu.4":        "4. Add a purchase to an invoice",
		"menu.5":        "5. Show invoices",
		"menu.6":        "6. Export an invoice's purchases",
		"menu.7":        "7. Quit",
		"menu.prompt":   "Please choose an option (1-7): ",
		"menu.invalid":  "Invalid choice. Please try again.",
		"menu.goodbye":  "Goodbye!",
		"prompt.code":   "Enter the article code: ",
		"prompt.name":   "Enter the designation: ",
		"prompt.price":  "Enter the article price (MAD): ",
		"prompt.cat":    "Enter the category (Informatique/Bureautique): ",
		"prompt.disc":   "Enter the discount percentage (must include '%'): ",
		"prompt.inv":    "Enter the invoice number: ",
		"prompt.art":    "Enter the article number: ",
		"prompt.qty":    "Enter the quantity: ",
		"prompt.path":   "Enter the file name (empty for the export directory): ",
		"ok.name":       "Designation accepted: %s",
		"ok.price":      "Price accepted: %s MAD",
		"ok.cat":        "Category accepted: %s",
		"ok.disc":       "Discount accepted: %s%%",
		"ok.article":    "Article created!",
		"ok.discounted": "Discounted article created!",
		"ok.invoice":    "Invoice #%d created!",
		"ok.purchase":   "Purchase added to the invoice!",
		"ok.export":     "Purchases of invoice #%d exported.",
		"list.invoices": "Select an invoice:",
		"list.invoice":  "%d. Invoice #%d",
		"list.articles": "Select an article:",
		"err.field":     "Error: %s: %s",
		"err.price_mad": "Error: the price must end with 'MAD'. Please try again.",
		"err.price_num": "Error: please enter a valid numeric price followed by 'MAD'.",
		"err.cat":       "Error: the category must be 'Informatique' or 'Bureautique'. Please try again.",
		"err.disc_pct":  "Error: the discount must include '%'. Please try again.",
		"err.disc_num":  "Error: please enter a valid numeric discount.",
		"err.number":    "Error: please enter a whole number.",
		"err.category":  "Category error: %s",
		"err.duplicate": "Error: this purchase is already on the invoice.",
		"err.final":     "Error: the invoice is finalized.",
		"err.unknown":   "An error occurred: %s",
		"err.no_sink":   "Error: no export destination configured.",
		"err.no_inv":    "No invoice available. Please create an invoice first.",
		"err.no_art":    "No article available. Please create an article first.",
		"err.bad_inv":   "Invalid invoice.",
		"err.bad_art":   "Invalid article.",
		"none.invoices": "No invoice to show.",
		"total":         "Total: %s MAD",
	},
}

// DetectLanguage picks a supported language from an Accept-Language style value
// or a POSIX locale such as en_US.UTF-8. Anything unsupported falls back to DefaultLang.
func DetectLanguage(s string) string {
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexAny(tag, ";-_."); i >= 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(tag)
		if _, ok := messages[tag]; ok {
			return tag
		}
	}
	return DefaultLang
}

// T translates code. Unknown languages fall back to French; unknown codes are returned as is.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

type ctxKey struct{}

// WithLang stores the language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}
