// Package chatbot implements the in-app assistant: a fixed table of
// substring-matched intents with canned French replies, falling back to a
// Gemini completion when no rule matches.
package chatbot

import "strings"

// Canned replies, exported so handler tests can assert exact equality.
const (
	ReplyFavorites    = "❤️ Voici le lien vers tes photos favorites : http://localhost:3000/favorites"
	ReplyAlbumList    = "📁 Tu as déjà créé des albums comme : Vacances, Famille, Amis. Tu peux en créer d'autres dans la page d'accueil."
	ReplyCreateAlbum  = "📝 Pour créer un album, clique sur le bouton 'Créer un album' dans la barre de navigation et entre un nom."
	ReplyUploadPhoto  = "📤 Clique sur le bouton 'Uploader une photo', choisis une image, ajoute une description et un lieu, puis clique sur Envoyer."
	ReplyAnalysis     = "🤖 Nous utilisons Amazon Rekognition pour analyser tes images et générer automatiquement des labels intelligents."
	ReplyDescription  = "🗒️ Tu peux ajouter une description à chaque image lors de l’upload pour mieux les retrouver ensuite."
	ReplyLocation     = "📍 Lors de l'upload, tu peux ajouter un lieu (ville ou coordonnées GPS) pour chaque photo."
	ReplyProfilePhoto = "👤 Va dans ton profil pour changer ta photo de profil. Clique sur l'image actuelle pour en sélectionner une nouvelle."
	ReplyDeletePhoto  = "🗑️ Dans la galerie, clique sur l’icône de corbeille sous la photo que tu veux supprimer."
	ReplyDarkMode     = "🌙 Active le mode sombre en cliquant sur l’icône de lune en haut à droite de la page."
	ReplyLogout       = "🚪 Tu peux te déconnecter depuis le menu utilisateur dans la barre de navigation."
)

// rule maps an utterance to a canned reply. The utterance matches when all
// substrings of any one group are present (groups are OR'd, substrings
// within a group are AND'd).
type rule struct {
	groups [][]string
	reply  string
}

// rules are tested in order; the first match wins.
var rules = []rule{
	{[][]string{{"photos favorites"}, {"favoris"}}, ReplyFavorites},
	{[][]string{{"albums", "créés"}}, ReplyAlbumList},
	{[][]string{{"comment créer un album"}, {"ajouter un album"}}, ReplyCreateAlbum},
	{[][]string{{"comment uploader"}, {"ajouter une photo"}}, ReplyUploadPhoto},
	{[][]string{{"analyse"}, {"intelligence artificielle"}}, ReplyAnalysis},
	{[][]string{{"description"}}, ReplyDescription},
	{[][]string{{"localisation"}, {"lieu"}}, ReplyLocation},
	{[][]string{{"changer ma photo de profil"}}, ReplyProfilePhoto},
	{[][]string{{"comment supprimer une photo"}}, ReplyDeletePhoto},
	{[][]string{{"mode sombre"}}, ReplyDarkMode},
	{[][]string{{"déconnexion"}, {"logout"}}, ReplyLogout},
}

// MatchIntent tests the utterance against the rule table, case-insensitively.
// Returns the canned reply and true on the first match, or "" and false when
// no rule applies.
func MatchIntent(utterance string) (string, bool) {
	lowered := strings.ToLower(utterance)
	for _, r := range rules {
		for _, group := range r.groups {
			matched := true
			for _, sub := range group {
				if !strings.Contains(lowered, sub) {
					matched = false
					break
				}
			}
			if matched {
				return r.reply, true
			}
		}
	}
	return "", false
}
