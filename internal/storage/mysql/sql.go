package mysql

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels
  (name, city, address, phone, nightly_rate, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Catalog imports keep the upstream id; created_at survives re-imports.
const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, city, address, phone, nightly_rate, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name         = VALUES(name),
  city         = VALUES(city),
  address      = VALUES(address),
  phone        = VALUES(phone),
  nightly_rate = VALUES(nightly_rate),
  updated_at   = VALUES(updated_at)
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, city = ?, address = ?, phone = ?, nightly_rate = ?, updated_at = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const selectHotelCols = `
SELECT id, name, city, address, phone, nightly_rate, created_at, updated_at
FROM hotels
`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

const insertReservationSQL = `
INSERT INTO reservations
  (hotel_id, guest_name, guest_email, check_in_date, check_out_date,
   room_number, status, total_price, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Only the mutable columns; price and dates are fixed at creation.
const updateReservationSQL = `
UPDATE reservations
SET status = ?, updated_at = ?
WHERE id = ?
`

// Reads join the hotel so results carry its display name.
const selectReservationCols = `
SELECT
  r.id,
  r.hotel_id,
  r.guest_name,
  r.guest_email,
  r.check_in_date,
  r.check_out_date,
  r.room_number,
  r.status,
  r.total_price,
  r.created_at,
  r.updated_at,
  h.name
FROM reservations r
LEFT JOIN hotels h ON h.id = r.hotel_id
`
