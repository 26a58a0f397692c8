package usecase

import (
	"slices"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
)

const supportPhone = "09 70 19 67 02"

var partners = []domain.Partner{
	{Name: "Manpower", Color: "#0050A0", Domain: "manpower.fr"},
	{Name: "Randstad", Color: "#003DA5", Domain: "randstad.fr"},
	{Name: "Adecco", Color: "#E30613", Domain: "adecco.fr"},
	{Name: "France Travail", Color: "#FFC845", Domain: "francetravail.fr"},
	{Name: "Indeed", Color: "#2164F3", Domain: "indeed.com"},
	{Name: "Monster", Color: "#6E46AE", Domain: "monster.fr"},
	{Name: "LinkedIn", Color: "#0A66C2", Domain: "linkedin.com"},
	{Name: "APEC", Color: "#00A0DC", Domain: "apec.fr"},
}

var landingPages = map[string]domain.LandingPage{
	"candidates": {
		Slug:     "candidates",
		Title:    "On fait matcher votre profil avec les bonnes entreprises.",
		Subtitle: "Déposez votre CV gratuitement. Notre équipe RH optimise votre profil et vous met en relation avec des recruteurs qui recherchent vraiment vos compétences.",
		Badges:   []string{"100% Gratuit", "Profil Optimisé"},
		Actions: []domain.CallToAction{
			{Text: "Déposer mon CV", Href: "/cv", Variant: "primary"},
			{Text: supportPhone, Href: "tel:+33970196702", Variant: "yellow"},
		},
		Partners: partners,
		FAQs: []domain.FAQ{
			{Question: "Est-ce gratuit pour les candidats ?", Answer: "Oui, 100 % gratuit. Skillijob est financé par les entreprises partenaires."},
			{Question: "Que se passe-t-il après le dépôt ?", Answer: "Nous optimisons votre profil, puis un expert RH le vérifie avant diffusion anonyme."},
			{Question: "Puis-je préciser mon projet ?", Answer: "Oui : mobilité, disponibilités, type de contrat (CDI, CDD, intérim, alternance), préférences métier."},
			{Question: "Mon profil est-il anonyme ?", Answer: "Oui. Seules vos compétences sont visibles. Vos coordonnées ne sont partagées qu'aux recruteurs intéressés."},
		},
	},
	"companies": {
		Slug:     "companies",
		Title:    "Trouvez votre talent idéal",
		Subtitle: "Accédez à des profils qualifiés et recrutez rapidement",
		Badges:   []string{"Livraison rapide", "Profils qualifiés", "Dossiers complets", "Prix fixe", "Paiement sécurisé"},
		Actions: []domain.CallToAction{
			{Text: "Voir les candidats", Href: "/espace-candidats", Variant: "primary"},
			{Text: "Choisir un pack", Href: "/paiements", Variant: "yellow"},
		},
		FAQs: []domain.FAQ{
			{Question: "Comment fonctionne le déblocage de profils ?", Answer: "Une fois votre pack acheté, sélectionnez les profils qui vous intéressent et débloquez-les. Vous recevrez les dossiers complets sous 24h."},
			{Question: "Quelle est la validité des packs ?", Answer: "30 jours pour Starter, 60 jours pour Premium et 90 jours pour Business. Vous pouvez utiliser vos crédits durant cette période."},
			{Question: "Que contient un dossier complet ?", Answer: "Le CV détaillé du candidat, ses coordonnées complètes et un compte-rendu RH avec motivation, disponibilité, mobilité et prétentions salariales."},
			{Question: "Y a-t-il des frais cachés ?", Answer: "Non, le prix affiché est le prix final. Aucune commission sur l'embauche."},
		},
	},
}

type contentUsecase struct{}

func NewContentUsecase() domain.ContentUsecase {
	return contentUsecase{}
}

func (contentUsecase) Page(slug string) (*domain.LandingPage, error) {
	p, ok := landingPages[slug]
	if !ok {
		return nil, apperror.NotFound("Page introuvable")
	}
	p.Badges = slices.Clone(p.Badges)
	p.Actions = slices.Clone(p.Actions)
	p.Partners = slices.Clone(p.Partners)
	p.FAQs = slices.Clone(p.FAQs)
	return &p, nil
}
