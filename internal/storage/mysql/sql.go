package mysql

const establishmentColumns = `
  id, nom, adresse, ville, code_postal, telephone, email, gerant, statut,
  siret, numero_tva, directeur_nom, directeur_telephone, directeur_email,
  capacite, categories, services, horaires,
  total_chambres, chambres_occupees, taux_occupation`

// The UI lists by name; keep the ORDER BY aligned with the cache's sort
// invariant.
const listEstablishmentsSQL = `
SELECT` + establishmentColumns + `
FROM etablissements
ORDER BY nom ASC`

const getEstablishmentSQL = `
SELECT` + establishmentColumns + `
FROM etablissements
WHERE id = ?`

const insertEstablishmentSQL = `
INSERT INTO etablissements
  (nom, adresse, ville, code_postal, telephone, email, gerant, statut,
   siret, numero_tva, directeur_nom, directeur_telephone, directeur_email,
   capacite, categories, services, horaires,
   total_chambres, chambres_occupees, taux_occupation)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const deleteEstablishmentSQL = `
DELETE FROM etablissements WHERE id = ?`

const listActiveReservationsSQL = `
SELECT id, etablissement_id, statut
FROM reservations
WHERE etablissement_id = ? AND statut IN (?, ?)`

const listRoomsSQL = `
SELECT id, etablissement_id, statut
FROM chambres
WHERE etablissement_id = ?`
