package advisory

// Advisory blocks. Each slice is one display-ready group of statements.

var rainBlock = []string{
	"🚨 URGENT: Rain detected or expected!",
	"❌ DO NOT apply any pesticides, fungicides, or fertilizers - they will wash away",
	"❌ STOP all irrigation immediately",
	"🔍 Check fields for waterlogging and ensure proper drainage",
	"🌾 Postpone harvesting operations until fields dry",
	"📦 Protect stored produce from moisture",
}

var extremeHeatBlock = []string{
	"🔥 EXTREME HEAT ALERT!",
	"💧 Increase irrigation by 50-70% immediately",
	"🌅 Irrigate during early morning (5-7 AM) or late evening (6-8 PM)",
	"🏚️ Install shade nets for vegetables and sensitive crops",
	"🌾 Apply 3-4 inch mulch layer to conserve soil moisture",
	"🚫 Avoid any field work during peak heat (12-4 PM)",
}

var highTemperatureBlock = []string{
	"🌡️ High temperature alert",
	"💧 Increase irrigation frequency by 30-40%",
	"🌾 Apply organic mulch around plants",
	"🌅 Best to irrigate early morning or evening",
	"👀 Monitor for heat stress symptoms in crops",
}

var warmBlock = []string{
	"☀️ Warm weather conditions",
	"💧 Maintain regular irrigation schedule",
	"🌾 Good conditions for most farming activities",
}

var frostBlock = []string{
	"❄️ FROST WARNING!",
	"🔥 Use smoke technique or cover crops with plastic sheets overnight",
	"💧 Water crops in morning (acts as insulation)",
	"🚫 DO NOT water in evening - increases frost risk",
	"🌾 Protect young plants and seedlings with mulch",
}

var coldBlock = []string{
	"🌡️ Cold weather conditions",
	"🌾 Protect sensitive crops from cold stress",
	"💧 Reduce irrigation frequency",
	"🌅 Irrigate only during warm hours (10 AM - 2 PM)",
}

var veryHighHumidityBlock = []string{
	"💧 VERY HIGH HUMIDITY - Disease Risk!",
	"🔍 Inspect crops daily for fungal diseases (powdery mildew, leaf blight)",
	"🌿 Ensure 30-40% spacing between plants for air circulation",
	"❌ AVOID irrigation - soil already has enough moisture",
	"💊 Consider preventive fungicide spray (check weather before application)",
}

var highHumidityBlock = []string{
	"💨 High humidity detected",
	"🔍 Monitor for fungal disease symptoms",
	"🌿 Prune dense foliage to improve airflow",
	"💧 Reduce irrigation if soil is moist",
}

var veryLowHumidityBlock = []string{
	"🏜️ Very low humidity",
	"💧 Increase irrigation to compensate for high evaporation",
	"🌾 Use sprinkler/mist irrigation in evening",
	"💦 Consider anti-transpirant spray for high-value crops",
}

var lowHumidityBlock = []string{
	"🌬️ Low humidity conditions",
	"💧 Monitor soil moisture closely",
	"🌾 Mulching recommended to retain moisture",
}

var strongWindBlock = []string{
	"💨 STRONG WIND ALERT!",
	"❌ DO NOT spray any chemicals - high drift risk",
	"❌ Cancel drone operations",
	"🌾 Provide staking support to tall crops (tomato, beans, maize)",
	"🌱 Delay transplanting operations",
	"🚁 Postpone all aerial applications",
}

var moderateWindBlock = []string{
	"🌬️ Moderate to strong winds",
	"⚠️ Exercise caution when spraying - some drift expected",
	"🌾 Check stakes and supports for tall crops",
	"🌱 Avoid transplanting delicate seedlings",
}

var perfectBlock = []string{
	"✅ PERFECT FARMING CONDITIONS!",
	"🌱 Excellent time for sowing and transplanting",
	"🌾 Ideal for pesticide and fertilizer application (early morning/evening)",
	"🚜 Good conditions for land preparation and plowing",
	"✂️ Safe for pruning and weeding operations",
	"🌾 Best time for harvesting if crops are ready",
	"🚁 Drone spraying operations can proceed",
}

var goodBlock = []string{
	"👍 Good farming conditions overall",
	"🌾 Most farming activities can proceed normally",
	"💊 Suitable for chemical applications (early morning/evening)",
}

// The leading empty statement renders as a blank separator line.
var footerBlock = []string{
	"",
	"📋 General Guidelines:",
	"• Always check weather forecast before major operations",
	"• Keep emergency supplies (pump, drainage tools) ready",
	"• Document daily observations in farm diary",
	"• Consult local agriculture officer for specific crop advice",
}
