package usecase

import (
	"slices"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
)

const legalUpdatedAt = "13 octobre 2025"

var legalDocuments = []domain.LegalDocument{
	{
		Slug:      "mentions",
		Title:     "Mentions légales",
		UpdatedAt: legalUpdatedAt,
		Sections: []domain.LegalSection{
			{Heading: "Éditeur du site", Paragraphs: []string{
				"Le présent site www.skillijob.fr (ci-après « le Site ») est édité par SKILLIJOB, SAS au siège social situé 60 rue François 1er, 75008 Paris, France.",
				"Immatriculée au RCS Paris sous le numéro SIREN 980 918 858, SIRET 980 918 858 00013. N° TVA intracommunautaire : FR35980918858.",
				"Téléphone : 09 70 19 67 02. E-mail : contact@skillijob.fr.",
				"Directrice de la publication : Anissa Melo, Présidente.",
			}},
			{Heading: "Hébergement", Paragraphs: []string{
				"Hébergeur : IONOS, 7 place de la Gare, 57200 Sarreguemines, France. Téléphone : 09 70 80 89 11.",
			}},
			{Heading: "Accès au site", Paragraphs: []string{
				"L'accès au Site est gratuit. SKILLIJOB s'efforce d'en assurer l'accessibilité 24/7, sans obligation de résultat.",
			}},
			{Heading: "Propriété intellectuelle", Paragraphs: []string{
				"L'ensemble des éléments du Site est protégé par le droit de la propriété intellectuelle et demeure la propriété exclusive de SKILLIJOB ou de ses partenaires.",
				"Toute reproduction, représentation, modification ou exploitation, même partielle, sans autorisation écrite est interdite.",
			}},
			{Heading: "Liens hypertextes", Paragraphs: []string{
				"Le Site peut contenir des liens vers des sites tiers. SKILLIJOB n'exerce aucun contrôle sur ces sites et décline toute responsabilité quant à leurs contenus.",
			}},
			{Heading: "Responsabilité", Paragraphs: []string{
				"L'éditeur ne saurait être tenu responsable des dommages directs ou indirects résultant de l'utilisation du Site.",
			}},
			{Heading: "Données personnelles", Paragraphs: []string{
				"Pour les informations relatives aux traitements éventuels, l'utilisateur est invité à consulter la Politique de confidentialité.",
			}},
			{Heading: "Droit applicable et litiges", Paragraphs: []string{
				"Les présentes mentions légales sont soumises au droit français. À défaut d'accord amiable, les tribunaux de Paris seront seuls compétents.",
			}},
		},
	},
	{
		Slug:      "cookies",
		Title:     "Politique de cookies",
		UpdatedAt: legalUpdatedAt,
		Sections: []domain.LegalSection{
			{Heading: "1. Définition", Paragraphs: []string{
				"Un cookie est un petit fichier texte enregistré sur votre terminal lors de la consultation d'un site. Des technologies similaires (localStorage, balises, pixels) sont désignées de la même façon.",
			}},
			{Heading: "2. Cookies utilisés", Paragraphs: []string{
				"Cookies strictement nécessaires, déposés sans consentement : session (durée de la session), cookie_consent (6 mois), sécurité anti-abus (24 h).",
				"Mesure d'audience exemptée (optionnelle) : statistiques agrégées de visites, 13 mois au maximum.",
				"Les cookies non essentiels (analytics non exemptée, réseaux sociaux, publicité) ne sont activés qu'après consentement.",
			}},
			{Heading: "3. Gérer vos préférences", Paragraphs: []string{
				"Le bandeau affiché à la première visite permet d'accepter, de refuser ou de personnaliser. Le lien « Paramétrer les cookies » du pied de page reste disponible à tout moment.",
			}},
			{Heading: "4. Durées de conservation", Paragraphs: []string{
				"Cookies strictement nécessaires : durée limitée au strict besoin. Preuve du consentement : 6 mois. Analytics exemptée : jusqu'à 13 mois.",
			}},
			{Heading: "5. Contact", Paragraphs: []string{
				"Toute question relative aux cookies : privacy@skillijob.fr ou contact@skillijob.fr.",
			}},
		},
	},
	{
		Slug:      "confidentialite",
		Title:     "Politique de confidentialité",
		UpdatedAt: legalUpdatedAt,
		Sections: []domain.LegalSection{
			{Heading: "1. Responsable du traitement", Paragraphs: []string{
				"SKILLIJOB, 60 rue François 1er, 75008 Paris, France. Contact : privacy@skillijob.fr.",
			}},
			{Heading: "2. Données traitées", Paragraphs: []string{
				"Données techniques (journaux serveurs) : adresse IP, horodatages, URL consultées, user agent, erreurs.",
				"Les données de formulaire (identité, contact, CV) ne sont collectées qu'au dépôt de candidature, avec une information dédiée.",
			}},
			{Heading: "3. Finalités et bases légales", Paragraphs: []string{
				"Fonctionnement, sécurité et maintenance du Site : intérêt légitime (art. 6(1)(f) RGPD).",
				"Toute analyse non essentielle est désactivée par défaut et soumise à votre consentement.",
			}},
			{Heading: "4. Destinataires", Paragraphs: []string{
				"Accès limité aux équipes autorisées de SKILLIJOB et à ses prestataires techniques soumis à confidentialité.",
			}},
			{Heading: "5. Durées de conservation", Paragraphs: []string{
				"Journaux serveurs : 3 mois. Cookies nécessaires : durée strictement limitée au fonctionnement.",
			}},
			{Heading: "6. Vos droits", Paragraphs: []string{
				"Vous disposez des droits d'accès, rectification, effacement, opposition, limitation et portabilité. Exercice des droits : privacy@skillijob.fr. Réclamation possible auprès de la CNIL.",
			}},
			{Heading: "7. Sécurité", Paragraphs: []string{
				"Chiffrement en transit, contrôle d'accès, journalisation sécurité et sauvegardes. En cas de violation de données, notification conformément au RGPD.",
			}},
		},
	},
	{
		Slug:      "cgv",
		Title:     "Conditions générales de vente",
		UpdatedAt: legalUpdatedAt,
		Sections: []domain.LegalSection{
			{Heading: "1) Objet", Paragraphs: []string{
				"Prestation de mise en relation qualifiée : consultation de profils anonymisés via l'Espace Candidats et déblocage de dossiers complets (CV, coordonnées, compte-rendu RH) dans le cadre d'un recrutement réel.",
			}},
			{Heading: "2) Processus", Paragraphs: []string{
				"Le Client filtre et pré-sélectionne des profils dans l'Espace Candidats, commande un pack puis transmet les références des profils à débloquer.",
				"Skillijob envoie les dossiers complets sous 24 h ouvrées.",
			}},
			{Heading: "3) Prix et paiement", Paragraphs: []string{
				"Le prix du pack est fixe et affiché avant la commande. Aucun remboursement : les garanties donnent lieu à remplacement ou prolongation du crédit.",
			}},
			{Heading: "4) Crédit et durée", Paragraphs: []string{
				"Le crédit de déblocages est valable pendant la durée indiquée par le pack, à compter de la commande.",
			}},
			{Heading: "5) Garanties commerciales", Paragraphs: []string{
				"Candidat injoignable 48 h ouvrées après le premier contact ou information clé caduque : remplacement 1 pour 1 sans frais.",
			}},
			{Heading: "6) Responsabilité", Paragraphs: []string{
				"Skillijob fournit un service de mise en relation qualifiée, sans garantie d'embauche. Responsabilité limitée au montant HT payé.",
			}},
			{Heading: "7) Droit applicable", Paragraphs: []string{
				"Droit français. Tentative amiable préalable, puis Tribunal de commerce de Paris.",
			}},
		},
	},
}

type legalUsecase struct{}

func NewLegalUsecase() domain.LegalUsecase {
	return legalUsecase{}
}

// List returns the documents without their sections.
func (legalUsecase) List() []domain.LegalDocument {
	out := make([]domain.LegalDocument, len(legalDocuments))
	for i, d := range legalDocuments {
		out[i] = domain.LegalDocument{Slug: d.Slug, Title: d.Title, UpdatedAt: d.UpdatedAt}
	}
	return out
}

func (legalUsecase) Get(slug string) (*domain.LegalDocument, error) {
	for _, d := range legalDocuments {
		if d.Slug != slug {
			continue
		}
		doc := d
		doc.Sections = make([]domain.LegalSection, len(d.Sections))
		for i, s := range d.Sections {
			doc.Sections[i] = domain.LegalSection{Heading: s.Heading, Paragraphs: slices.Clone(s.Paragraphs)}
		}
		return &doc, nil
	}
	return nil, apperror.NotFound("Document introuvable")
}
